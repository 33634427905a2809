/*
Package logging holds the zerolog logger used by the mocks and the sham CLI.

Mocks emit one debug event per intercepted call, so raising the level to debug
(SHAM_DEBUG=true, or Init with Debug set) traces exactly what the code under
test asked for. The default level is info, which keeps test output quiet.
*/
package logging
