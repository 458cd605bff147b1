package datasets

import "context"

func produceStructures(ctx context.Context, e *Env) {
	e.fetchRemote(ctx, "nb04")
	e.Mat.Ensure(ctx, e.path("nb04", drugsFile), "generating", "Approved drugs dataset", func(ctx context.Context) ([]byte, error) {
		data, err := drugsTable(e.Tables.Drugs)
		if err == nil {
			e.detail("%d drugs", len(e.Tables.Drugs))
		}
		return data, err
	})
}

func drugsTable(drugs []Drug) ([]byte, error) {
	t := newTable("name", "smiles", "mw", "logp", "hbd", "hba", "category")
	for _, d := range drugs {
		t.row(d.Name, optionalString(d.Smiles), formatFloat(d.MW), optionalFloat(d.LogP),
			optionalInt(d.HBD), optionalInt(d.HBA), d.Category)
	}
	return t.bytes()
}
