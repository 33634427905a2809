/*
Package http defines the HTTP client capability that application code is
written against.

Client hands out a RequestBuilder per verb; the builder chains Body, JSON,
Form and Headers and finally Send, which yields a Response or an Error. The
httpclient package implements the capability over net/http, and http/mock
implements it with testify expectations, so call sites are identical whichever
one is injected.

Errors returned by Send and by Response readers satisfy Error and can be
classified with its Is* methods or inspected through ErrorKind.
*/
package http
