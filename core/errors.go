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


package core

import "errors"

var (
	// ErrThresholdOutOfRange indicates a similarity threshold outside [0,1].
	ErrThresholdOutOfRange = errors.New("threshold must be within [0,1]")

	// ErrInvalidWordVector indicates a WordVector failed validation.
	ErrInvalidWordVector = errors.New("invalid word vector")

	// ErrEmptyWord indicates the Word field is empty.
	ErrEmptyWord = errors.New("word cannot be empty")

	// ErrEmptyLanguage indicates the Lang field is empty.
	ErrEmptyLanguage = errors.New("language cannot be empty")

	// ErrEmptyVector indicates the Vector field has no components.
	ErrEmptyVector = errors.New("vector cannot be empty")
)
