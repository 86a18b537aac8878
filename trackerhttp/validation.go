// Copyright (c) 2016-2019 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package trackerhttp

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// validationFailure is a client-facing tracker failure. Unlike internal
// faults, its message is safe to return verbatim in the bencoded response.
type validationFailure struct {
	reason string
}

func (e *validationFailure) Error() string { return e.reason }

func invalidParams(missing ...string) error {
	return &validationFailure{"Invalid get parameters; Missing: " + strings.Join(missing, ", ")}
}

func invalidLength(field string) error {
	return &validationFailure{fmt.Sprintf("Invalid length of %s.", field)}
}

func invalidValue(field string) error {
	return &validationFailure{fmt.Sprintf("Invalid %s value.", field)}
}

// requireKeys returns invalidParams listing every name in q not present.
func requireKeys(q url.Values, names ...string) error {
	var missing []string
	for _, n := range names {
		if !q.Has(n) {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return invalidParams(missing...)
	}
	return nil
}

// parseNonNegativeInt parses s as a non-negative base-10 integer with no
// sign character, per the tracker protocol's numeric field grammar.
func parseNonNegativeInt(field, s string) (int64, error) {
	if s == "" {
		return 0, invalidValue(field)
	}
	var n int64
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, invalidValue(field)
		}
		n = n*10 + int64(c-'0')
	}
	return n, nil
}

// validateIP checks that ip is a syntactically valid IPv4 or IPv6 literal.
func validateIP(ip string) error {
	if net.ParseIP(ip) == nil {
		return invalidValue("ip")
	}
	return nil
}
