package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers all URL shortener routes.
func RegisterRoutes(api huma.API, urlHandler *URLHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-short-url",
		Method:        http.MethodPost,
		Path:          "/api/shorturls",
		Summary:       "Create short URL",
		Description:   "Shortens a URL, optionally with a requested code and a validity in minutes.",
		Tags:          []string{"URLs"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusConflict},
	}, urlHandler.CreateShortURL)

	huma.Register(api, huma.Operation{
		OperationID: "list-short-urls",
		Method:      http.MethodGet,
		Path:        "/api/shorturls",
		Summary:     "List short URLs",
		Description: "Lists every stored short URL with its click history, oldest first.",
		Tags:        []string{"Analytics"},
	}, urlHandler.ListShortURLs)

	huma.Register(api, huma.Operation{
		OperationID: "get-short-url-stats",
		Method:      http.MethodGet,
		Path:        "/api/shorturls/{code}",
		Summary:     "Get short URL statistics",
		Description: "Returns the click history of a live short URL.",
		Tags:        []string{"Analytics"},
		Errors:      []int{http.StatusNotFound},
	}, urlHandler.GetStats)

	huma.Register(api, huma.Operation{
		OperationID: "redirect",
		Method:      http.MethodGet,
		Path:        "/{code}",
		Summary:     "Redirect to original URL",
		Description: "Redirects to the original URL and records the click.",
		Tags:        []string{"URLs"},
		Errors:      []int{http.StatusNotFound},
	}, urlHandler.RedirectToURL)
}
