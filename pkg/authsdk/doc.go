/*
Package authsdk is a Go client for the authguard HTTP API.

# Client vs Session

The package is organized around two types:

  - Client: unauthenticated operations (register, login, MFA verification,
    refresh, health) and the factory for Sessions
  - Session: operations on the signed-in user, with automatic token refresh

Create a Client and sign in:

	client := authsdk.NewClient("https://auth.example.com")

	resp, err := client.Login(ctx, authsdk.LoginRequest{Email: email, Password: password})
	if err != nil {
		return err
	}

# MFA Login

When the account has MFA enabled, Login returns RequiresMFA and a
temporary token instead of an access token. The temporary token is only
accepted by VerifyMFA and lives for five minutes:

	if resp.RequiresMFA {
		resp, err = client.VerifyMFA(ctx, authsdk.VerifyMFARequest{
			TempToken: resp.TempToken,
			Code:      totpOrBackupCode,
		})
	}
	session, err := client.NewSession(resp)

# Managing MFA

	setup, err := session.SetupMFA(ctx)    // secret, QR code, backup codes (shown once)
	err = session.EnableMFA(ctx, code)      // confirm with a code from the app
	codes, err := session.RegenerateBackupCodes(ctx, code)
	err = session.DisableMFA(ctx, code, password)

# Errors

Every non-2xx response is returned as *APIError. Compare against the
predefined values with errors.Is:

	if errors.Is(err, authsdk.ErrInvalidCredentials) {
		// wrong email or password
	}

Server handlers use the same values to write their responses, so both
sides agree on status codes and error codes.
*/
package authsdk
