package ports

import "carestats/domain/dataset"

// DatasetReader loads a discharge table from an external source
type DatasetReader interface {
	ReadDataset() (*dataset.Dataset, error)
}
