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
package httputil

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/arkadia-labs/trackerd/utils/testutil"

	"github.com/stretchr/testify/require"
)

func TestSendReturnsStatusErrorOnUnexpectedCode(t *testing.T) {
	require := require.New(t)

	addr, stop := testutil.StartServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
	defer stop()

	_, err := Get(fmt.Sprintf("http://%s/", addr))
	require.Error(err)
	require.True(IsNotFound(err))
}

func TestSendAcceptedCodes(t *testing.T) {
	require := require.New(t)

	addr, stop := testutil.StartServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusAccepted)
		}))
	defer stop()

	resp, err := Get(
		fmt.Sprintf("http://%s/", addr),
		SendAcceptedCodes(http.StatusOK, http.StatusAccepted))
	require.NoError(err)
	require.Equal(http.StatusAccepted, resp.StatusCode)
}
