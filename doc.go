// Package bundletrim removes unused CSS from the output of a JavaScript bundler.
//
// It works on an already-built bundle snapshot: the emitted assets plus, for
// script assets, the modules they were built from. Usage text is harvested from
// the modules (and optional extra sources), then every stylesheet is trimmed:
// plain CSS assets directly, and the stylesheets css-loader embeds in script
// assets by parsing the exports.push([module.i, "..."]) call, trimming the CSS
// and splicing the result back into the exact byte range it came from.
//
// # Library
//
//	cfg := bundletrim.DefaultConfig()
//	cfg.Blacklist = []string{"node_modules"}
//	p, err := bundletrim.New(cfg, nil, logger)
//	if err != nil {
//		return err // invalid filter pattern
//	}
//	result, err := p.Process(snapshot)
//	if err != nil {
//		return err
//	}
//	if err := result.Err(); err != nil {
//		// some assets kept their original content
//	}
//
// A nil trimmer selects the built-in rule pruner.
//
// # CLI Tool
//
// bundletrim also provides a CLI tool. Install with:
//
//	go install github.com/yacobolo/bundletrim/cmd/bundletrim@latest
package bundletrim
