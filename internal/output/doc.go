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

// Package output writes issue and repository records for the
// non-interactive commands in one of three formats:
//
//   - ndjson: one JSON object per line, suited to jq and other stream tools
//   - yaml: one YAML document per record, separated by "---"
//   - text: human readable lines
//
// The primary type is Writer, which provides thread-safe writing of records
// to an io.Writer or file. Records are encoded as they are written and never
// accumulated in memory.
//
// Example usage:
//
//	w, err := output.NewFileWriter(output.FormatNDJSON, "issues.ndjson")
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//
//	for _, rec := range output.IssueRecords("google/tink", repo) {
//	    if err := w.Write(rec); err != nil {
//	        return err
//	    }
//	}
package output
