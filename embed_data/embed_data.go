package embed_data

import _ "embed"

//go:embed tables/approved_drugs.json
var ApprovedDrugs []byte

//go:embed tables/crop_genome_stats.json
var CropGenomeStats []byte

//go:embed tables/airway.json
var Airway []byte

//go:embed tables/proteome_reference.json
var ProteomeReference []byte

//go:embed tables/remote_sources.json
var RemoteSources []byte
