package client

import "context"

// TwoFactorService covers enrolment and verification of TOTP two-factor
// authentication for the current user.
type TwoFactorService struct {
	client *Client
}

// TwoFactorSecret is a freshly generated TOTP secret awaiting enrolment.
type TwoFactorSecret struct {
	Secret        string `json:"secret"`
	OTPAuthURL    string `json:"otpauthUrl"`
	QRCodeDataURL string `json:"qrCodeDataUrl"`
}

// GenerateSecret creates a new TOTP secret for enrolment. The secret is
// not active until Enable confirms it with a valid code.
func (s *TwoFactorService) GenerateSecret(ctx context.Context) (*TwoFactorSecret, error) {
	var secret TwoFactorSecret
	if err := s.client.get(ctx, "/auth/2fa/generate-secret", &secret); err != nil {
		return nil, err
	}
	return &secret, nil
}

// Verify checks a TOTP code against a pending secret without enabling it.
func (s *TwoFactorService) Verify(ctx context.Context, token, secret string) error {
	payload := map[string]string{"token": token, "secret": secret}
	return s.client.post(ctx, "/auth/2fa/verify", payload, nil)
}

// Enable turns on two-factor auth after verifying the code, returning
// one-time backup codes the user must store.
func (s *TwoFactorService) Enable(ctx context.Context, token, secret string) ([]string, error) {
	payload := map[string]string{"token": token, "secret": secret}
	var data struct {
		BackupCodes []string `json:"backupCodes"`
	}
	if err := s.client.post(ctx, "/auth/2fa/enable", payload, &data); err != nil {
		return nil, err
	}
	return data.BackupCodes, nil
}

// Disable turns off two-factor auth; requires a current TOTP code.
func (s *TwoFactorService) Disable(ctx context.Context, token string) error {
	payload := map[string]string{"token": token}
	return s.client.post(ctx, "/auth/2fa/disable", payload, nil)
}

// VerifyBackupCode consumes a one-time backup code in place of a TOTP
// code.
func (s *TwoFactorService) VerifyBackupCode(ctx context.Context, backupCode string) error {
	payload := map[string]string{"backupCode": backupCode}
	return s.client.post(ctx, "/auth/2fa/verify-backup-code", payload, nil)
}
