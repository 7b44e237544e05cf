package http

// Method is an HTTP request method.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodPatch  Method = "PATCH"
	MethodDelete Method = "DELETE"
)

// carriesQuery reports whether parameters are sent in the URL query.
func (m Method) carriesQuery() bool {
	return m == MethodGet || m == MethodDelete
}

// carriesBody reports whether parameters are sent as a JSON body.
func (m Method) carriesBody() bool {
	return m == MethodPost || m == MethodPut || m == MethodPatch
}

// String returns the method name.
func (m Method) String() string {
	return string(m)
}
