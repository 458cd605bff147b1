package contracts

import "context"

// IFetcher retrieves raw records from the public repositories. Every call is a
// single attempt; callers decide what a failure means for their artifact.
type IFetcher interface {
	Download(ctx context.Context, url string) ([]byte, error)
	Entrez(ctx context.Context, db, accession, rettype string) ([]byte, error)
	Structure(ctx context.Context, pdbID string) ([]byte, error)
	ProteinFASTA(ctx context.Context, accession string) ([]byte, error)
	Proteome(ctx context.Context, organismID int, size int) ([]byte, error)
}
