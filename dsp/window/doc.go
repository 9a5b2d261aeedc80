// Package window generates the tapering windows used for spectrum frames.
package window
