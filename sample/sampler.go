package sample

import "math/big"

// Sampler is implemented by types that can draw a random *big.Int from some
// probability distribution over the integers.
type Sampler interface {
	Sample() (*big.Int, error)
}
