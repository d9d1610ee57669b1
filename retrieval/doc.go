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


// Package retrieval answers natural-language queries against stored chunks.
//
// The Retriever prefixes every query with a one-line banner naming the chain,
// embeds all queries in a single batched call and hands the embeddings to the
// vector store. Ask goes one step further and has an ai.Answerer compose an
// answer from the retrieved chunk texts.
//
// An optional keyword boost re-ranks results whose text contains every
// non-stop-word of the query.
package retrieval
