package providers

import (
	"github.com/samber/do/v2"

	"github.com/kitaplik/kitaplik-server/internal/auth"
	"github.com/kitaplik/kitaplik-server/internal/config"
)

// ProvideVerifier provides the PASETO token verifier for the key shared
// with the identity service.
func ProvideVerifier(i do.Injector) (*auth.Verifier, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return auth.NewVerifier(cfg.Auth.TokenKeyHex)
}
