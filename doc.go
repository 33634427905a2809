/*
Package sham provides test doubles for an HTTP client and for the OS process
builder, so application code can be written once against a capability
interface and bound to either the real implementation or a scripted stand-in.

The capabilities live in the http and process packages, real adapters in
httpclient and process, and the mocks in http/mock and process/mock. Mocks are
built on testify's mock package; ordered expectations come from the sequence
package. The fixture package loads YAML scripts into configured mocks, and
httpclient/transportmock checks the real client's wire traffic without a
network. The sham command validates fixture scripts.

Init loads the optional configuration (sham.yaml or SHAM_* variables) and
applies it to the logging package. Tests typically call it from TestMain.
*/
package sham
