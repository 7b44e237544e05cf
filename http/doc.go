// Package http provides a small declarative JSON client on top of net/http.
//
// Callers describe a call with a Request (path, method, headers, and either
// Parameters or a raw body), execute it through a Client, and receive a typed
// Response whose Result carries either the decoded value or an *Error with a
// closed ErrorKind: Unknown, ConnectionLost, Timeout, NoInternet, or
// CannotDecode.
//
// Basic Usage:
//
//	client, err := http.NewClient("https://api.example.com")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	type item struct {
//	    Data string `json:"data"`
//	}
//
//	req := http.NewRequest(http.MethodGet, "path/to/resource").
//	    WithHeader(http.BearerAuthorization(token)).
//	    WithParameter("key", "value")
//
//	resp := http.Send[item](context.Background(), client, req)
//	v, err := resp.Result.Get()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Status: %d, data: %s\n", resp.Status, v.Data)
//
// Callback Style:
//
// SendAsync returns immediately and hands the Response to a callback on
// another goroutine. Both entry points resolve and decode identically.
//
//	http.SendAsync(ctx, client, req, func(resp *http.Response[item]) {
//	    ...
//	})
//
// Empty Responses:
//
// Use Empty as the target type when no body is expected; the body is never
// parsed and the result always succeeds when the transport does.
//
//	resp := http.Send[http.Empty](ctx, client, http.NewRequest(http.MethodPost, "events"))
//
// Request Resolution:
//
// Parameters go to the URL query for GET and DELETE and to a JSON body for
// POST, PUT, and PATCH, with Content-Type defaulting to application/json.
// User-Agent, Accept-Encoding, and Accept-Language are added unless the
// request already sets them. Query keys and values are always percent-encoded.
//
// Thread Safety:
//
// Client is safe for concurrent use. Requests and Responses are not shared
// between calls.
package http
