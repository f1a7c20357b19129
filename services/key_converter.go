package services

import (
	"errors"
	"strings"

	"github.com/tigarcia/validator-version-monitor/models"
)

var (
	ErrNoKeys             = errors.New("please enter at least one key")
	ErrAmbiguousDirection = errors.New("cannot determine conversion direction: equal number of identity and vote accounts")
)

const (
	ConvertToVote     = "vote"
	ConvertToIdentity = "identity"
)

type ConversionResult struct {
	OriginalKey  string `json:"originalKey"`
	ConvertedKey string `json:"convertedKey"`
	IsError      bool   `json:"isError"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

type Conversion struct {
	Direction string             `json:"direction"`
	Results   []ConversionResult `json:"results"`
	Converted int                `json:"converted"`
	Failed    int                `json:"failed"`
}

// Output joins the successfully converted keys, one per line
func (c Conversion) Output() string {
	keys := make([]string, 0, len(c.Results))
	for _, r := range c.Results {
		if !r.IsError {
			keys = append(keys, r.ConvertedKey)
		}
	}
	return strings.Join(keys, "\n")
}

// ParseKeyList splits newline separated input, dropping blank lines
func ParseKeyList(input string) []string {
	var keys []string
	for _, line := range strings.Split(input, "\n") {
		if k := strings.TrimSpace(line); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// ConvertKeys maps identity keys to vote keys or the reverse. The direction
// follows whichever kind is in the majority; keys already of the target
// kind pass through unchanged.
func ConvertKeys(keys []string, validators []models.Validator) (Conversion, error) {
	if len(keys) == 0 {
		return Conversion{}, ErrNoKeys
	}

	identityToVote := make(map[string]string, len(validators))
	voteToIdentity := make(map[string]string, len(validators))
	for _, v := range validators {
		identityToVote[v.IdentityPubkey] = v.VoteAccountPubkey
		voteToIdentity[v.VoteAccountPubkey] = v.IdentityPubkey
	}

	identityCount, voteCount := 0, 0
	for _, k := range keys {
		if _, ok := identityToVote[k]; ok {
			identityCount++
		} else if _, ok := voteToIdentity[k]; ok {
			voteCount++
		}
	}

	if identityCount == voteCount && identityCount > 0 {
		return Conversion{}, ErrAmbiguousDirection
	}

	toVote := identityCount > voteCount
	conv := Conversion{Direction: ConvertToIdentity, Results: make([]ConversionResult, 0, len(keys))}
	if toVote {
		conv.Direction = ConvertToVote
	}

	for _, k := range keys {
		res := ConversionResult{OriginalKey: k, ConvertedKey: k}

		vote, isIdentity := identityToVote[k]
		identity, isVote := voteToIdentity[k]

		switch {
		case isIdentity:
			if toVote {
				res.ConvertedKey = vote
			}
		case isVote:
			if !toVote {
				res.ConvertedKey = identity
			}
		default:
			res.IsError = true
			res.ErrorMessage = "Key not found in validator set"
		}

		if res.IsError {
			conv.Failed++
		} else {
			conv.Converted++
		}
		conv.Results = append(conv.Results, res)
	}

	return conv, nil
}
