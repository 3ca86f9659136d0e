package typedhttp_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"time"

	"github.com/adamwoolhether/typedhttp"
	"github.com/adamwoolhether/typedhttp/client"
)

// greeting is a single-endpoint client.Target.
type greeting struct {
	base *url.URL
}

func (g greeting) BaseURL() *url.URL             { return g.base }
func (g greeting) Path() string                  { return "/hello" }
func (g greeting) Method() client.Method         { return client.MethodGet }
func (g greeting) Headers() map[string]string    { return map[string]string{"Accept": "application/json"} }
func (g greeting) Parameters() map[string]string { return nil }
func (g greeting) Data() []byte                  { return nil }

func ExampleNewClient() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"msg":"hello"}`)
	}))
	defer ts.Close()

	c, err := typedhttp.NewClient[greeting](client.WithTimeout(5 * time.Second))
	if err != nil {
		fmt.Println("build error:", err)
		return
	}

	u, _ := url.Parse(ts.URL)

	resp, err := client.Do[struct{ Msg string }](context.Background(), c, greeting{base: u})
	if err != nil {
		fmt.Println("do error:", err)
		return
	}

	fmt.Println(resp.Msg)
	// Output: hello
}
