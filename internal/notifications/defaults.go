package notifications

import "context"

// AllowAllConsent permits marketing contact for every buyer. It is the
// documented default until a real consent source is wired in; swap it for a
// policy-backed implementation without touching the handlers.
type AllowAllConsent struct{}

func (AllowAllConsent) MarketingAllowed(_ context.Context, _ string) (bool, error) {
	return true, nil
}

// UnknownGeo resolves every buyer to an empty country. The default until a
// real geo source exists.
type UnknownGeo struct{}

func (UnknownGeo) Country(_ context.Context, _ string) (string, error) {
	return "", nil
}
