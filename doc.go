// Package pomade publishes text, image and video assets to a Pomegranate
// asset service over its Atom/OData HTTP API with NTLM authentication.
//
// # Architecture
//
// The library is organized into layers:
//
//	┌─────────────────────────────────────────────────────────┐
//	│  publisher/   Publish pipeline (validate, build, post)  │
//	├─────────────────────────────────────────────────────────┤
//	│  asset/       Asset model, validation, URL liveness     │
//	├─────────────────────────────────────────────────────────┤
//	│  atom/        Entry rendering and response parsing      │
//	├─────────────────────────────────────────────────────────┤
//	│  transport/   HTTP transport    auth/  NTLM, anonymous  │
//	└─────────────────────────────────────────────────────────┘
//
// # Quick Start
//
//	p, err := publisher.New(ctx, publisher.Config{
//	    Subdomain: "my-subdomain",
//	    Username:  "myusername",
//	    Password:  "mypassword",
//	    ClientID:  "XX",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := p.Publish(ctx, []asset.Asset{
//	    {Target: "XX~username", Type: asset.TypeText, Value: "jakebellacera"},
//	    {Target: "XX~avatar", Type: asset.TypeImage, Value: "http://www.gravatar.com/avatar/98363013aa1237798130bc0fd2c4159d.png"},
//	})
package pomade
