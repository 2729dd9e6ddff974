/*
Package authsdk is a Go client for the warframe-checklist API and the home
of the wire types both the server and the client share.

# Sessions

The API keeps the session in an HttpOnly cookie named access_token whose
value is "Bearer <jwt>". Client owns a cookie jar, so after Login or
Register every later call is authenticated without further work:

	client := authsdk.NewClient("https://api.example.com")

	if _, err := client.Login(ctx, "alice", "s3cret"); err != nil {
		return err
	}

	me, err := client.Me(ctx)

The cookie is Secure, so the base URL must be https for the jar to send it
back. Tests use httptest.NewTLSServer and the server's client:

	client := authsdk.NewClientWithHTTP(srv.URL, srv.Client())
	client.HTTPClient.Jar, _ = cookiejar.New(nil)

# Errors

Every failure is an *APIError carrying the HTTP status and the error code
from the response body. Match with errors.Is against the predefined
values:

	_, _, err := client.Register(ctx, req)
	if errors.Is(err, authsdk.ErrUserAlreadyExists) {
		// pick another name
	}

A freshly registered account is inactive until an operator activates it.
Until then Me and CheckToken fail with ErrInactiveUser.
*/
package authsdk
