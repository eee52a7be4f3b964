// https://github.com/greatscottgadgets/libgreat
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package sgpio

import "log"

// logWarning mirrors lpc43xx's own leveled logger so this package doesn't
// need to thread one through from board code.
var logWarning = log.New(log.Writer(), "sgpio: warning: ", log.Flags())
