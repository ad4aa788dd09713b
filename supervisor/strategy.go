// MIT License
//
// Copyright (c) 2026 Troupe Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package supervisor

// Strategy represents the restart strategy applied by a supervisor when one
// of its children terminates abnormally.
type Strategy int

const (
	// OneForOne is a supervision strategy where only the failed child is
	// restarted. Sibling actors continue running unaffected.
	OneForOne Strategy = iota

	// OneForAll is a supervision strategy where a failure of any child causes
	// all remaining children to be terminated and every child to be restarted
	// in the original start order.
	//
	// Use this strategy when the children are tightly coupled and the
	// malfunction of one invalidates the state of the whole ensemble.
	OneForAll

	// RestForOne is a supervision strategy where the failed child and every
	// child started after it are terminated and restarted in the original
	// start order. Children started before the failed one are untouched.
	RestForOne

	// SimpleOneForOne is a supervision strategy for dynamic children. The
	// supervisor is configured with exactly one template child spec and
	// instances are added at runtime; on failure only the failed instance is
	// restarted.
	SimpleOneForOne
)

// String returns the string representation of the strategy
func (s Strategy) String() string {
	switch s {
	case OneForOne:
		return "OneForOne"
	case OneForAll:
		return "OneForAll"
	case RestForOne:
		return "RestForOne"
	case SimpleOneForOne:
		return "SimpleOneForOne"
	default:
		return ""
	}
}
