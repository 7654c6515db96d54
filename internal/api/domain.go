package api

import (
	"github.com/JaimeStill/gostcat/internal/compliance"
	"github.com/JaimeStill/gostcat/internal/lookup"
	"github.com/JaimeStill/gostcat/internal/records"
	"github.com/JaimeStill/gostcat/internal/reference"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Records    records.System
	Reference  reference.System
	Compliance compliance.System
	Lookup     lookup.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	recordsSystem := records.New(
		runtime.Store,
		runtime.Storage,
		runtime.Logger,
		runtime.Metrics,
		runtime.Pagination,
		runtime.ImageBase,
	)

	referenceSystem := reference.New(
		runtime.Reference.Table,
		runtime.Logger,
		runtime.Metrics,
	)

	complianceSystem := compliance.New(
		runtime.Reference.Regulation,
		runtime.Logger,
		runtime.Metrics,
	)

	lookupSystem := lookup.New(
		runtime.Store,
		referenceSystem,
		complianceSystem,
		runtime.Assistant,
		runtime.Mirror,
		runtime.Logger,
		runtime.Metrics,
	)

	return &Domain{
		Records:    recordsSystem,
		Reference:  referenceSystem,
		Compliance: complianceSystem,
		Lookup:     lookupSystem,
	}
}
