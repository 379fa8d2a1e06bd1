package conf

import "fmt"

// SystemEnvironment selects the yaml file loaded at startup.
type SystemEnvironment string

const (
	LocalEnvironmentEnum   SystemEnvironment = "loc"
	ProductEnvironmentEnum SystemEnvironment = "prod"
	ExampleEnvironmentEnum SystemEnvironment = "example"
)

// SystemEnvironmentEnum current environment, set from the -env flag
var SystemEnvironmentEnum = LocalEnvironmentEnum

// GetYaml returns the config file for the current environment.
func GetYaml() string {
	return fmt.Sprintf("./conf/conf_%s.yaml", SystemEnvironmentEnum)
}
