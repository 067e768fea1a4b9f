// Copyright 2025 Poiesic Systems
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


// Package ai provides abstractions for the AI services used by earncall.
//
// Three interfaces are defined here:
//
//   - Embedder: Generates vector embeddings from text
//   - StatementExtractor: Extracts labelled statements from a transcript chunk
//   - AIProvider: Aggregates AI services for convenient initialization
//
// # Implementation Packages
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//     (Gemini's compatibility endpoint by default)
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// Public constructors in ai/openai return interface types. Mock constructors
// return concrete types so tests can inject behavior and assert call counts.
//
// # Error Policy
//
// Remote embedding failures are handled by GuardedEmbedder according to
// Config.OnEmbeddingError. The default, ErrorPolicyDegrade, logs the failure
// and substitutes a zero vector of Config.EmbeddingDimensions entries.
// ErrorPolicyPropagate returns the failure wrapped in ErrRemoteCall.
// Missing credentials are reported eagerly by Config.Validate as
// ErrMissingCredential.
//
// # Usage Example
//
//	cfg, err := ai.ConfigFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	provider, err := openai.NewProvider(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vec, err := provider.Embedder().EmbedText(ctx, "Revenue grew 15% year over year.")
package ai
