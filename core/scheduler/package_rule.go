package scheduler

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/goto/jobtrail/core/catalog"
)

const SubsystemSSIS = "SSIS"

// PackageRule extracts the catalog path folder\project\package out of a step command
type PackageRule struct {
	Name    string
	Extract func(command string) (string, bool)
}

func regexRule(name, pattern string) PackageRule {
	re := regexp.MustCompile(pattern)
	return PackageRule{
		Name: name,
		Extract: func(command string) (string, bool) {
			match := re.FindStringSubmatch(command)
			if len(match) < 2 {
				return "", false
			}
			return match[1], true
		},
	}
}

// PackageRules are tried in order, the first match wins
var PackageRules = []PackageRule{
	regexRule("isserver-quoted", `(?i)/ISSERVER\s+"\\SSISDB\\([^"]+)"`),
	regexRule("isserver-unquoted", `(?i)/ISSERVER\s+\\SSISDB\\(\S+\.dtsx)`),
	regexRule("catalog-quoted", `(?i)"\\SSISDB\\([^"]+)"`),
	regexRule("catalog-unquoted", `(?i)\\SSISDB\\(\S+\.dtsx)`),
}

var (
	executionIDPattern = regexp.MustCompile(`(?i)execution_id[:\s]+(\d+)`)
	lastStepPattern    = regexp.MustCompile(`(?i)last step to run was step (\d+)`)
)

// MatchPackagePath returns the raw path and the name of the matching rule
func MatchPackagePath(command string) (string, string, bool) {
	for _, rule := range PackageRules {
		if path, ok := rule.Extract(command); ok {
			return path, rule.Name, true
		}
	}
	return "", "", false
}

// ExtractPackageReference finds an embedded catalog package in a step command.
// A command without a recognizable path, or with a path of less than three parts, has no reference.
func ExtractPackageReference(command string) (catalog.PackageReference, bool) {
	if command == "" {
		return catalog.PackageReference{}, false
	}

	path, _, ok := MatchPackagePath(command)
	if !ok {
		return catalog.PackageReference{}, false
	}

	ref, err := catalog.PackageReferenceFrom(path)
	if err != nil {
		return catalog.PackageReference{}, false
	}
	return ref, true
}

// ExtractExecutionID finds an explicit execution_id token in a step message
func ExtractExecutionID(message string) (catalog.ExecutionID, bool) {
	if !strings.Contains(strings.ToLower(message), "execution_id") {
		return 0, false
	}

	match := executionIDPattern.FindStringSubmatch(message)
	if len(match) < 2 {
		return 0, false
	}

	id, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return catalog.ExecutionID(id), true
}

// LastStepRun reads the "last step to run was step N" hint of an outcome message
func LastStepRun(outcomeMessage string) (int, bool) {
	match := lastStepPattern.FindStringSubmatch(outcomeMessage)
	if len(match) < 2 {
		return 0, false
	}

	step, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return step, true
}
