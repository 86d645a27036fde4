// Package normalize validates raw registration requests against the wire
// contract and canonicalizes them into policy.PolicyInput.
package normalize

import (
	"encoding/json"

	"regpolicy/ipaddresses"
	"regpolicy/policy"
)

type rawRequester struct {
	IPAddress *string `json:"ip_address"`
	UserAgent *string `json:"user_agent"`
}

type rawRequest struct {
	ClientMetadata map[string]interface{} `json:"client_metadata"`
	Requester      *rawRequester          `json:"requester"`
}

// ParseRequest validates a raw registration request and produces a
// canonical PolicyInput. Contract failures (missing required key, malformed
// ip_address, malformed JSON) return *policy.InputError and are never a
// policy decision. All client_metadata keys are retained verbatim.
func ParseRequest(raw []byte) (input policy.PolicyInput, err error) {
	var r rawRequest
	if jsonErr := json.Unmarshal(raw, &r); jsonErr != nil {
		err = &policy.InputError{Field: "request", Msg: "malformed JSON: " + jsonErr.Error()}
		return
	}

	// "client_metadata": null and an absent key are both rejected; the
	// contract requires an object, though it may be empty.
	if r.ClientMetadata == nil {
		err = &policy.InputError{Field: "client_metadata", Msg: "missing required key"}
		return
	}

	if r.Requester == nil {
		err = &policy.InputError{Field: "requester", Msg: "missing required key"}
		return
	}

	input.ClientMetadata = policy.ClientMetadata(r.ClientMetadata)

	if r.Requester.IPAddress != nil {
		if !ipaddresses.ValidLiteral(*r.Requester.IPAddress) {
			input = policy.PolicyInput{}
			err = &policy.InputError{Field: "requester.ip_address", Msg: "not a valid IPv4 or IPv6 literal"}
			return
		}
		input.Requester.IPAddress = *r.Requester.IPAddress
	}

	if r.Requester.UserAgent != nil {
		input.Requester.UserAgent = *r.Requester.UserAgent
	}

	return
}
