// Package charset holds the fixed table of special characters that need a
// translation QA review and answers membership queries against it.
package charset
