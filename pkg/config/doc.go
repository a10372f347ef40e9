/*
Package config manages configuration parsing and validation for ocrrc.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+-----+ +----+----+ +----+----+
	|   YAML    | |   HCL   | |  JSON   |
	|  Parser   | | Parser  | | Parser  |
	+-----------+ +---------+ +---------+

🎯 Purpose:
- Manages configuration loading and parsing
- Validates corpus, rule, and output settings
- Provides type-safe config access
- Supports multiple config formats

🔄 Flow:
1. Reads configuration from file
2. Parses format-specific syntax
3. Validates configuration values
4. Provides validated config to other packages

🤝 Interfaces:
- Parser: Format-specific parsing
- Config: Type-safe config access

📝 Design Philosophy:
The config package is the source of truth for all run settings. Rule
definitions may live inline, in a separate rules file, or in a remote
rule pack; this package owns the textual formats and hands validated
rule entries to pkg/rules for compilation.
*/
package config
