/*
Package transportmock provides a pretend http.RoundTripper for testing the
real httpclient without a network.

Where http/mock replaces the whole client, transportmock sits underneath
httpclient and checks what actually goes on the wire: method, URL and body.

Quick start

	m, _ := transportmock.New(transportmock.Config{
	  ExpectedMethod: "POST",
	  ExpectedURL:    "https://api.example.com/users",
	  BodyValidator: func(b []byte) error {
	    // Decode and assert fields here
	    return nil
	  },
	  Response: transportmock.Respond(201, `{"id":2}`),
	})

	client, _ := httpclient.New(httpclient.Config{HTTPClient: m.Client()})

Behavior

  - If Fail is true and Error is set, RoundTrip returns that error.
  - If Fail is true and Error is nil, RoundTrip returns ErrOperationFailed.
  - Otherwise, RoundTrip enforces ExpectedMethod and ExpectedURL when set and
    runs BodyValidator when provided. Response builds the reply; without one
    the reply is an empty 200.

Leave fields blank when you want a wildcard; only values you set are enforced.
*/
package transportmock
