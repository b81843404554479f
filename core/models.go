// Copyright 2025 The Clinical Data Harmonization Authors
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


package core

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for content-addressed data.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// Identical content always produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// CodingSystem identifies one of the two reference vocabularies.
type CodingSystem string

const (
	// CodingSystemSNOMED is the vocabulary for procedures, labs and diagnoses.
	CodingSystemSNOMED CodingSystem = "SNOMEDCT_US"
	// CodingSystemRxNorm is the vocabulary for medications.
	CodingSystemRxNorm CodingSystem = "RXNORM"
)

// EntityType classifies an input row and determines which coding system it is
// harmonized against.
type EntityType string

const (
	EntityTypeProcedure  EntityType = "Procedure"
	EntityTypeLab        EntityType = "Lab"
	EntityTypeDiagnosis  EntityType = "Diagnosis"
	EntityTypeMedication EntityType = "Medication"
)

// System returns the coding system this entity type routes to. Procedures,
// labs and diagnoses are coded in SNOMED; every other type in RxNorm.
func (t EntityType) System() CodingSystem {
	switch t {
	case EntityTypeProcedure, EntityTypeLab, EntityTypeDiagnosis:
		return CodingSystemSNOMED
	default:
		return CodingSystemRxNorm
	}
}

// Sentinel codes returned in place of a real target code. They are data, not
// errors: downstream consumers must be able to tell "nothing to match" apart
// from "matched nothing".
const (
	CodeNoInput  = "NO_INPUT"
	CodeNotFound = "NOT_FOUND"
)

// Explanatory descriptions paired with the sentinel codes.
const (
	DescriptionNoInput  = "Original text was empty after cleaning"
	DescriptionNotFound = "No suitable match found"
)

// InputRow is a single free-text entity description to be harmonized.
type InputRow struct {
	Description string
	EntityType  EntityType
}

// TerminologyEntry is one entry of a reference vocabulary.
type TerminologyEntry struct {
	System         CodingSystem
	Code           string
	RawDescription string
	// NormalizedDescription is derived from RawDescription by the normalizer.
	// It is never absent; the empty string marks unmatchable content.
	NormalizedDescription string
}

// MatchResult is the outcome of harmonizing one input row. It either carries
// the winning vocabulary entry or one of the sentinel outcomes.
type MatchResult struct {
	System      CodingSystem
	Code        string
	Description string
}

// NoInputResult builds the sentinel result for a query that normalized to the
// empty string.
func NoInputResult(system CodingSystem) MatchResult {
	return MatchResult{System: system, Code: CodeNoInput, Description: DescriptionNoInput}
}

// NotFoundResult builds the sentinel result for a query with no candidate
// above the retrieval threshold.
func NotFoundResult(system CodingSystem) MatchResult {
	return MatchResult{System: system, Code: CodeNotFound, Description: DescriptionNotFound}
}

// Matched reports whether the result carries a real vocabulary entry rather
// than a sentinel outcome.
func (r MatchResult) Matched() bool {
	return r.Code != CodeNoInput && r.Code != CodeNotFound
}
