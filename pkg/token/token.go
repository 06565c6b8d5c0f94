// Package token genera identificadores cortos y tokens aleatorios de un solo uso.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"math/big"
)

const base36Chars = "0123456789abcdefghijklmnopqrstuvwxyz"

// ShortUIDLen longitud del uid corto legible de SubscriptionHistory.
const ShortUIDLen = 6

// ShortUID deriva un uid corto y determinista a partir de la clave primaria del
// registro: sha256 del id, reinterpretado como entero y truncado a 6 caracteres
// base36. Es una referencia legible para humanos, NO una llave de búsqueda ni un
// token de seguridad; la unicidad no está garantizada tras el truncado.
func ShortUID(pk string) string {
	sum := sha256.Sum256([]byte(pk))

	n := new(big.Int).SetBytes(sum[:])
	base := big.NewInt(int64(len(base36Chars)))
	mod := new(big.Int)

	var buf []byte
	for n.Sign() > 0 {
		n.DivMod(n, base, mod)
		buf = append([]byte{base36Chars[mod.Int64()]}, buf...)
	}
	if len(buf) == 0 {
		buf = []byte{'0'}
	}
	if len(buf) > ShortUIDLen {
		buf = buf[:ShortUIDLen]
	}
	return string(buf)
}

const randomTokenChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Random devuelve un token aleatorio criptográficamente seguro de n caracteres
// alfanuméricos. Se usa para los tokens de un solo uso (CompanyOTP, reset).
func Random(n int) (string, error) {
	max := big.NewInt(int64(len(randomTokenChars)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = randomTokenChars[idx.Int64()]
	}
	return string(buf), nil
}

// OTPDigits genera un código numérico de n dígitos para verificación por correo.
func OTPDigits(n int) (string, error) {
	const digits = "0123456789"
	max := big.NewInt(int64(len(digits)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = digits[idx.Int64()]
	}
	return string(buf), nil
}
