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

// Package state holds the single-session, in-memory state of the issue
// browser and the fetch/display state machine around it.
//
// A Session turns user actions into typed Commands. Run executes a Command
// against a github.Client without touching the session, so it can run on any
// goroutine; the resulting Result is handed back to Session.Apply on the
// goroutine that owns the session. Nothing is persisted: the state is
// discarded when a new path is submitted or the process exits.
//
// Phases:
//
//	Idle -> Loading          Submit
//	Loading -> Loaded        repository present, no errors
//	Loading -> NotFound      organization or repository absent, no errors
//	Loading -> Error         GraphQL errors or transport failure
//	any -> Loading           Submit
//
// A fetch-more or star toggle keeps the current phase while pending and
// ends in Loaded on success or Error on failure, without discarding the
// issues accumulated so far.
//
// Example usage:
//
//	s := state.NewSession()
//	cmd, err := s.Submit("google/tink")
//	if err != nil {
//	    return err
//	}
//	if _, err := s.Apply(state.Run(ctx, client, cmd)); err != nil {
//	    return err
//	}
//	snap := s.Snapshot()
package state
