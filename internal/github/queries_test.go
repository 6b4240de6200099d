// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package github

import (
	"errors"
	"strings"
	"testing"

	apperrors "github.com/sirseerhq/sirseer-issues/internal/errors"
)

func TestOperationBind(t *testing.T) {
	vars, err := AddStar.Bind(map[string]any{"repositoryId": "R_1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vars["repositoryId"] != "R_1" || len(vars) != 1 {
		t.Errorf("vars = %v", vars)
	}

	_, err = RemoveStar.Bind(map[string]any{"repositoryId": "R_1", "owner": "x", "cursor": "y"})
	if err == nil {
		t.Fatal("expected error for undeclared variables")
	}
	if !strings.Contains(err.Error(), "cursor, owner") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestIssuesVariables(t *testing.T) {
	tests := []struct {
		name       string
		req        FetchRequest
		wantCursor bool
		wantErr    error
	}{
		{name: "initial has no cursor", req: InitialFetch("google", "tink")},
		{name: "initial ignores stray cursor", req: FetchRequest{Kind: FetchInitial, Organization: "google", Repository: "tink", Cursor: "C1"}},
		{name: "continuation binds cursor", req: ContinuationFetch("google", "tink", "C1"), wantCursor: true},
		{name: "continuation needs cursor", req: ContinuationFetch("google", "tink", ""), wantErr: apperrors.ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vars, err := issuesVariables(tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if vars["organization"] != "google" || vars["repository"] != "tink" {
				t.Errorf("vars = %v", vars)
			}
			if _, ok := vars["cursor"]; ok != tt.wantCursor {
				t.Errorf("cursor bound = %v, want %v", ok, tt.wantCursor)
			}
		})
	}

	if _, err := issuesVariables(FetchRequest{Kind: FetchKind(7)}); err == nil {
		t.Error("expected error for unknown fetch kind")
	}
}

func TestCatalogDocuments(t *testing.T) {
	if !strings.Contains(GetIssues.Document, "issues(first: 5, after: $cursor, states: [OPEN])") {
		t.Error("getIssues must request five open issues after the cursor")
	}
	if !strings.Contains(AddStar.Document, "addStar(input: {starrableId:$repositoryId})") {
		t.Error("unexpected addStar document")
	}
	if !strings.Contains(RemoveStar.Document, "removeStar(input: {starrableId:$repositoryId})") {
		t.Error("unexpected removeStar document")
	}
}
