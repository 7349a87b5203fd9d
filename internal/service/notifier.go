package service

import "context"

// CredentialNotifier delivers freshly issued credentials to the account
// holder. Issuance does not depend on it succeeding.
type CredentialNotifier interface {
	SendCredentialNotice(ctx context.Context, email, externalID, tempPassword string) error
}
