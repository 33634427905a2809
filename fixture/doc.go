/*
Package fixture loads mock scripts from YAML.

A script lists the HTTP exchanges a test expects, in order, and optionally the
commands it hands control to:

	exchanges:
	  - url: https://api.example.com/users/1
	    content_type: application/json
	    json: {id: 1, name: Ada}
	  - method: POST
	    url: https://api.example.com/users
	    status: 201
	    headers:
	      Location: /users/2
	  - url: https://api.example.com/flaky
	    error:
	      kinds: [connect, timeout]
	commands:
	  - program: git
	    args: [status]

Script.Client builds an ordered http/mock client from the exchanges and
Script.Command a process/mock FakeCommand from a command entry.
*/
package fixture
