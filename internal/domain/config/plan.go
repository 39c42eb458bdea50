package config

// PlanFile is the on-disk deployment plan (deploy.yaml)
type PlanFile struct {
	Deployments []PlanEntry `yaml:"deployments"`
}

// PlanEntry is one deployment of the plan file. Args keep their YAML types
// until they are coerced against the constructor ABI.
type PlanEntry struct {
	Name     string `yaml:"name"`
	Artifact string `yaml:"artifact"`
	Args     []any  `yaml:"args"`
	Value    string `yaml:"value,omitempty"`
}
