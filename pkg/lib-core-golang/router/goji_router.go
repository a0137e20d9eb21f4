package router

import (
	"net/http"

	"goji.io"
	"goji.io/pat"
)

// gojiRouter is a default Router implementation backed by goji mux
type gojiRouter struct {
	mux *goji.Mux
}

func (r *gojiRouter) Handle(method string, pattern string, handler http.Handler) {
	r.mux.Handle(pat.NewWithMethods(pattern, method), handler)
}

func (r *gojiRouter) Use(mw MiddlewareFunc) {
	r.mux.Use(func(h http.Handler) http.Handler { return mw(h) })
}

func (r *gojiRouter) pathParam(req *http.Request, name string) string {
	return pat.Param(req, name)
}

func (r *gojiRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func createGojiRouter() *gojiRouter {
	return &gojiRouter{mux: goji.NewMux()}
}
