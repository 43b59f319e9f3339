// Package http provides the request and response objects handed to handler
// methods.
//
// # Request
//
//	req := mvchttp.NewRequest(r)
//
//	req.URI()          // "/shop/web/test"
//	req.ContextPath()  // "/shop", set by the HTTP front
//	req.Params()       // query + form values, name → one or more values
//	req.Param("id")    // first value
//	req.Bind(&body)    // JSON body
//
// # Response
//
// Response is an http.ResponseWriter that records whether the status line
// has gone out, so the dispatcher can tell an untouched response from a
// partially written one.
//
//	res := mvchttp.NewResponse(w)
//	res.Text(http.StatusOK, "hello")
//	res.JSON(http.StatusOK, data)
//	res.FlushError()
package http
