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

import "fmt"

// ValidateEntry validates a TerminologyEntry according to domain rules.
//
// Validation rules:
//   - Code must not be empty
//   - System must be one of the known coding systems
//
// NOT validated:
//   - RawDescription (an empty description is legal; it simply never matches)
//   - NormalizedDescription (populated by the normalizer after loading)
func ValidateEntry(entry *TerminologyEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidEntry)
	}

	if entry.Code == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, ErrEmptyCode)
	}

	if err := ValidateSystem(entry.System); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, err)
	}

	return nil
}

// ValidateSystem validates that a CodingSystem has a known label.
func ValidateSystem(system CodingSystem) error {
	if system != CodingSystemSNOMED && system != CodingSystemRxNorm {
		return fmt.Errorf("%w: %q", ErrInvalidSystem, system)
	}
	return nil
}
