package api

import (
	"net/http"

	"github.com/JaimeStill/gostcat/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	runtime *Runtime,
) {
	routes.Register(
		mux,
		domain.Records.Handler(runtime.MaxUploadSize).Routes(),
		domain.Reference.Handler().Routes(),
		domain.Compliance.Handler().Routes(),
		domain.Lookup.Handler().Routes(),
		newMirrorHandler(runtime.Mirror, domain.Records, runtime.Logger).routes(),
	)
}
