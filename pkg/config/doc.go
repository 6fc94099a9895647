/*
Package config manages configuration parsing and validation for smalipatch.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |           |           |
	+-----+-----+ +---+----+ +----+----+
	|   YAML    | |  HCL   | |  JSON   |
	| Parser    | | Parser | | Parser  |
	+-----------+ +--------+ +---------+

🎯 Purpose:
- Manages configuration loading and parsing
- Validates configuration values and glob patterns
- Resolves the work dir and the patch file list
- Supports multiple config formats

🔄 Flow:
1. Reads configuration from file
2. Parses format-specific syntax
3. Validates configuration values
4. Provides validated config to the runner

⚡ Key Responsibilities:
- Configuration parsing
- Schema validation
- Include/exclude path filtering
- Format abstraction

🤝 Interfaces:
- Parser: Format-specific parsing
- Config: Type-safe config access

📝 Design Philosophy:
The config package is the source of truth for a batch run. It:
- Provides a clean interface for config access
- Ensures type safety and validation
- Abstracts away format-specific details
- Makes configuration errors clear and actionable

🔍 Example:

	cfg, err := config.Load(ctx, ".smalipatch.yaml")
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	for _, pat := range cfg.Patches {
		// feed each patch file to the runner
	}
*/
package config
