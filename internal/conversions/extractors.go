package conversions

import (
	"fmt"

	"github.com/sidereusnuntius/gofederate/internal/federation"
)

func ExtractPublicKeyFromActor(actor WithPublicKeyProperty) (string, error) {
	pubKeyProp := actor.GetW3IDSecurityV1PublicKey()
	if pubKeyProp == nil || pubKeyProp.Len() == 0 {
		return "", fmt.Errorf("%w: public key", federation.ErrMissingProperty)
	}

	key := pubKeyProp.Begin().Get()
	if key == nil {
		return "", fmt.Errorf("%w: public key", federation.ErrUnprocessablePropValue)
	}
	keyPemProp := key.GetW3IDSecurityV1PublicKeyPem()
	if keyPemProp == nil {
		return "", fmt.Errorf("%w: publicKeyPem", federation.ErrMissingProperty)
	}
	return keyPemProp.Get(), nil
}
