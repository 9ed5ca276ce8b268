package pdf

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

const aesKeyLength = 256

// AESEncrypter protects documents with AES-256. The same password opens and
// owns the document.
type AESEncrypter struct{}

func (AESEncrypter) Encrypt(ctx context.Context, data []byte, password string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	conf := model.NewAESConfiguration(password, password, aesKeyLength)
	var out bytes.Buffer
	if err := api.Encrypt(bytes.NewReader(data), &out, conf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncrypt, err)
	}
	return out.Bytes(), nil
}
