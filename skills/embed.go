// Package skills embeds the built-in skill corpus so that every
// distribution channel ships the documents without network access or
// extra files. Each top-level directory holds one SKILL.md plus any
// supporting reference files.
package skills

import "embed"

// FS contains the embedded skill corpus, rooted at this directory.
// Topic directories are the entries directly under the root.
//
//go:embed all:cli-ux all:code-style all:db-migrations all:error-handling all:git-workflow all:logging-practices all:naming-conventions all:testing-layout
var FS embed.FS
