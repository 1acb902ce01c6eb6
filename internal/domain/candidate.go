package domain

// Candidate is a freshly discovered token that the controller may buy into.
// The trading core treats everything but Address as opaque display data.
type Candidate struct {
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
	Address string `json:"address"`
	// PoolAddress is the token's liquidity pool, when the feed knows it.
	PoolAddress string `json:"poolAddress,omitempty"`
	// Source tags which scanner produced the candidate ("repo_trend",
	// "token_launch", ...).
	Source string `json:"source"`
	// RepoTag is the originating GitHub repository, when known.
	RepoTag string `json:"repoTag,omitempty"`
}
