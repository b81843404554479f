package match

import "errors"

var (
	// ErrSNOMEDIndexRequired is returned when the SNOMED index is not provided.
	ErrSNOMEDIndexRequired = errors.New("SNOMED index required")

	// ErrRxNormIndexRequired is returned when the RxNorm index is not provided.
	ErrRxNormIndexRequired = errors.New("RxNorm index required")

	// ErrInvalidParams is returned when retrieval or rerank tunables are out of range.
	ErrInvalidParams = errors.New("invalid matcher params")
)
