package server

import "github.com/labstack/echo/v4"

type EchoRouter interface {
	CONNECT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	HEAD(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	OPTIONS(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	TRACE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

type Server interface {
	Health(c echo.Context) error
	ListPlaces(c echo.Context) error
	ImportPlaces(c echo.Context) error
	Search(c echo.Context) error
}

func RegisterHandlers(router EchoRouter, si Server, _ ...echo.MiddlewareFunc) {
	router.GET("/health", si.Health).Name = "health"
	router.GET("/api/v1/places", si.ListPlaces).Name = "list-places"
	router.POST("/api/v1/places", si.ImportPlaces).Name = "import-places"
	router.POST("/api/v1/search", si.Search).Name = "search"
}
