// Package pregmapsdk is a Go client for the pregmap access service.
//
// Unauthenticated calls (sign-up, phone verification, sign-in, health) live
// on Client. A successful sign-in returns a Session that carries the bearer
// token for the account and PIN endpoints:
//
//	c := pregmapsdk.NewClient("https://pregmap.example.com")
//	s, err := c.SignInEmail(ctx, "amina@example.com", "secret")
//	if err != nil {
//		var apiErr *pregmapsdk.APIError
//		if errors.As(err, &apiErr) {
//			fmt.Println(apiErr.Description) // safe to show the user
//		}
//		return err
//	}
//	defer s.SignOut(ctx)
//
//	if err := s.VerifyPIN(ctx, "1234"); errors.Is(err, pregmapsdk.ErrInvalidPIN) {
//		...
//	}
//
// The request and response types are shared with the server handlers.
package pregmapsdk
