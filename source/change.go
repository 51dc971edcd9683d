// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package source

import (
	"fmt"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// ErrInvalidArgument is wrapped by errors returned when a caller violates a
// precondition, such as constructing a [TextChange] with a negative length.
var ErrInvalidArgument = errors.Base("invalid argument")

// TextChange describes replacing OldLength bytes at OldPosition in OldBuffer
// with NewLength bytes at NewPosition in NewBuffer.
//
// OldPosition and NewPosition are normally equal; they differ only for
// changes that have been normalized.
type TextChange struct {
	OldPosition, OldLength int
	NewPosition, NewLength int

	OldBuffer, NewBuffer string
}

// NewTextChange constructs a change that replaces oldLength bytes at position
// in oldBuffer with newLength bytes at position in newBuffer.
func NewTextChange(position, oldLength int, oldBuffer string, newLength int, newBuffer string) (TextChange, error) {
	return NewTextChangeAt(position, oldLength, oldBuffer, position, newLength, newBuffer)
}

// NewTextChangeAt is like [NewTextChange] but allows the old and new
// positions to differ.
func NewTextChangeAt(oldPosition, oldLength int, oldBuffer string, newPosition, newLength int, newBuffer string) (TextChange, error) {
	switch {
	case oldPosition < 0:
		return TextChange{}, errors.WithDetails(fmt.Errorf("%w: old position must be non-negative", ErrInvalidArgument), "oldPosition", oldPosition)
	case newPosition < 0:
		return TextChange{}, errors.WithDetails(fmt.Errorf("%w: new position must be non-negative", ErrInvalidArgument), "newPosition", newPosition)
	case oldLength < 0:
		return TextChange{}, errors.WithDetails(fmt.Errorf("%w: old length must be non-negative", ErrInvalidArgument), "oldLength", oldLength)
	case newLength < 0:
		return TextChange{}, errors.WithDetails(fmt.Errorf("%w: new length must be non-negative", ErrInvalidArgument), "newLength", newLength)
	case oldPosition+oldLength > len(oldBuffer):
		return TextChange{}, errors.Errorf("%w: old range [%d, %d) exceeds buffer of length %d", ErrInvalidArgument, oldPosition, oldPosition+oldLength, len(oldBuffer))
	case newPosition+newLength > len(newBuffer):
		return TextChange{}, errors.Errorf("%w: new range [%d, %d) exceeds buffer of length %d", ErrInvalidArgument, newPosition, newPosition+newLength, len(newBuffer))
	}

	return TextChange{
		OldPosition: oldPosition, OldLength: oldLength, OldBuffer: oldBuffer,
		NewPosition: newPosition, NewLength: newLength, NewBuffer: newBuffer,
	}, nil
}

// Insert builds the change that inserts text at pos in buffer.
func Insert(buffer string, pos int, text string) (TextChange, error) {
	if pos < 0 || pos > len(buffer) {
		return TextChange{}, errors.Errorf("%w: insert position %d outside buffer of length %d", ErrInvalidArgument, pos, len(buffer))
	}
	return NewTextChange(pos, 0, buffer, len(text), buffer[:pos]+text+buffer[pos:])
}

// Delete builds the change that removes n bytes at pos in buffer.
func Delete(buffer string, pos, n int) (TextChange, error) {
	if pos < 0 || n < 0 || pos+n > len(buffer) {
		return TextChange{}, errors.Errorf("%w: delete range [%d, %d) outside buffer of length %d", ErrInvalidArgument, pos, pos+n, len(buffer))
	}
	return NewTextChange(pos, n, buffer, 0, buffer[:pos]+buffer[pos+n:])
}

// Replace builds the change that replaces n bytes at pos in buffer with text.
func Replace(buffer string, pos, n int, text string) (TextChange, error) {
	if pos < 0 || n < 0 || pos+n > len(buffer) {
		return TextChange{}, errors.Errorf("%w: replace range [%d, %d) outside buffer of length %d", ErrInvalidArgument, pos, pos+n, len(buffer))
	}
	return NewTextChange(pos, n, buffer, len(text), buffer[:pos]+text+buffer[pos+n:])
}

// OldText returns the text being replaced.
func (c TextChange) OldText() string {
	return c.OldBuffer[c.OldPosition : c.OldPosition+c.OldLength]
}

// NewText returns the replacement text.
func (c TextChange) NewText() string {
	return c.NewBuffer[c.NewPosition : c.NewPosition+c.NewLength]
}

// IsInsert returns whether this change only adds text.
func (c TextChange) IsInsert() bool {
	return c.OldLength == 0 && c.NewLength > 0
}

// IsDelete returns whether this change only removes text.
func (c TextChange) IsDelete() bool {
	return c.OldLength > 0 && c.NewLength == 0
}

// IsReplace returns whether this change both removes and adds text.
func (c TextChange) IsReplace() bool {
	return c.OldLength > 0 && c.NewLength > 0
}

// Normalize rewrites a replacement whose new text begins with the old text
// as an insertion of just the suffix. Editors commonly report typing this
// way, e.g. replacing "foo" with "foo.".
func (c TextChange) Normalize() TextChange {
	if c.OldBuffer == "" || !c.IsReplace() || c.NewLength <= c.OldLength {
		return c
	}
	if !strings.HasPrefix(c.NewText(), c.OldText()) {
		return c
	}
	return TextChange{
		OldPosition: c.OldPosition + c.OldLength,
		OldLength:   0,
		OldBuffer:   c.OldBuffer,
		NewPosition: c.OldPosition + c.OldLength,
		NewLength:   c.NewLength - c.OldLength,
		NewBuffer:   c.NewBuffer,
	}
}

// Apply applies this change to content, which begins at byte offset offset
// in the old buffer, and returns the updated content.
//
// Returns content unchanged if the change does not intersect it.
func (c TextChange) Apply(content string, offset int) string {
	changeRelativePosition := c.OldPosition - offset
	if changeRelativePosition < 0 || changeRelativePosition > len(content) {
		return content
	}
	end := min(changeRelativePosition+c.OldLength, len(content))
	return content[:changeRelativePosition] + c.NewText() + content[end:]
}

// String implements [fmt.Stringer].
func (c TextChange) String() string {
	return fmt.Sprintf("(%d:%d) %q -> (%d:%d) %q",
		c.OldPosition, c.OldLength, c.OldText(),
		c.NewPosition, c.NewLength, c.NewText())
}
