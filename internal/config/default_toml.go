package config

// DefaultConfigTOML is the annotated configuration template written by
// `simscan init`. Values mirror DefaultConfig().
const DefaultConfigTOML = `# simscan configuration
# Place this file as .simscan.toml in your project root. simscan also
# searches ancestor directories, so one file can cover a whole tree.

[clone]
# Minimum size for a fragment to enter clone comparison.
min_lines = 5
min_tokens = 20

# Minimum alignment ratio for Type-3 (near-miss) clones.
similarity_threshold = 0.7

[affinity]
# Axis weights for whole-file affinity. Must sum to 1.0.
content_weight = 0.4
structure_weight = 0.3
dna_weight = 0.3

# Content comparison reads at most this many bytes per file.
max_content_bytes = 100000

# Wall-clock budget for a single full content comparison. Comparisons
# over budget degrade to a quick estimate.
comparison_timeout_seconds = 2.0

[consolidation]
# Cap on pairwise comparisons per sibling group. Larger groups are
# sampled down to a representative subset.
max_comparisons = 500

# Sibling groups with a mean affinity below this are left out of the
# report.
min_affinity_threshold = 0.3

[output]
# One of: text, json, yaml, csv.
format = "text"
show_content = false
`
