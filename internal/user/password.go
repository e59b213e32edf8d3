package user

import "golang.org/x/crypto/bcrypt"

// Hasher derives password hashes from plaintext plus a server-held pepper.
type Hasher struct {
	pepper string
	cost   int
}

func NewHasher(pepper string, cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return Hasher{pepper: pepper, cost: cost}
}

func (h Hasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain+h.pepper), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Check reports whether plain+pepper matches hash. bcrypt compares in
// constant time.
func (h Hasher) Check(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain+h.pepper)) == nil
}
