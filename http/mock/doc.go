/*
Package mock provides testify-backed test doubles for the http capability.

MockClient stands in for sdkhttp.Client. Configure it with an ordered list of
exchanges and hand it to the code under test:

	client := mock.NewClient(t,
		mock.Exchange{URL: "https://example.com/a", Result: mock.Ok(respA)},
		mock.Exchange{URL: "https://example.com/b", Result: mock.Fail(mock.NewError(sdkhttp.KindTimeout))},
	)
	defer client.AssertExpectations(t)

Each exchange is expected exactly once and in order. A call to an unknown URL,
an extra call or an out-of-order call fails the test immediately; a missing
call fails AssertExpectations. Every accepted call returns a fresh
MockRequestBuilder whose Send resolves to the exchange's Result. Body, JSON,
Form and Headers on the builder are accepted and ignored.

MockResponse is built with NewResponse and serves its fixed body from Bytes,
Text, JSON and BytesStream as often as asked. ErrorForStatus turns 4xx and 5xx
responses into a MockError with only the status category set.

Fixture problems (malformed URLs, a body that is not UTF-8 or not valid JSON
for the target) abort the test rather than surface as MockError values.
*/
package mock
