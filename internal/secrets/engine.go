package secrets

// Encrypt seals data with the construct named by alg.
func Encrypt(alg Algorithm, secret, data []byte, opts Options) ([]byte, error) {
	if err := alg.valid(); err != nil {
		return nil, err
	}
	if alg == AES256GCM {
		return EncryptGCM(secret, data, opts)
	}
	return EncryptCTR(secret, data, opts)
}

// Decrypt opens an envelope sealed with the construct named by alg.
func Decrypt(alg Algorithm, secret, envelope []byte, opts Options) ([]byte, error) {
	if err := alg.valid(); err != nil {
		return nil, err
	}
	if alg == AES256GCM {
		return DecryptGCM(secret, envelope, opts)
	}
	return DecryptCTR(secret, envelope, opts)
}
