package workflow

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/emrgen/modelhub/internal/model"
)

// CheckItem is one entry of the automated check snapshot.
type CheckItem struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Score   int    `json:"score"`
	Message string `json:"message,omitempty"`
}

type CheckResult struct {
	Score  int         `json:"score"`
	Passed bool        `json:"passed"`
	Items  []CheckItem `json:"items"`
}

// Check scores one aspect of a model. A passing check contributes Score to the
// aggregate, a failing one contributes nothing.
type Check struct {
	Name  string
	Score int
	Run   func(m *model.Model) error
}

type Checker struct {
	checks []Check
}

func NewChecker(checks ...Check) *Checker {
	return &Checker{checks: checks}
}

// DefaultChecker runs the fixed sequence of publish checks. A model passing all
// of them scores 95.
func DefaultChecker() *Checker {
	return NewChecker(
		Check{Name: "metadata_completeness", Score: 98, Run: checkMetadata},
		Check{Name: "file_validity", Score: 95, Run: checkVersion},
		Check{Name: "dependency_consistency", Score: 92, Run: checkDependencies},
		Check{Name: "naming_convention", Score: 96, Run: checkNaming},
		Check{Name: "interface_consistency", Score: 94, Run: checkInterfaces},
	)
}

func (c *Checker) Len() int {
	return len(c.checks)
}

// run evaluates check i.
func (c *Checker) run(i int, m *model.Model) CheckItem {
	check := c.checks[i]
	if err := check.Run(m); err != nil {
		return CheckItem{Name: check.Name, Message: err.Error()}
	}

	return CheckItem{Name: check.Name, Passed: true, Score: check.Score}
}

func summarize(items []CheckItem) *CheckResult {
	result := &CheckResult{Passed: true, Items: items}
	if len(items) == 0 {
		return result
	}

	total := 0
	for _, item := range items {
		total += item.Score
		if !item.Passed {
			result.Passed = false
		}
	}
	result.Score = total / len(items)

	return result
}

func checkMetadata(m *model.Model) error {
	var missing []string
	if strings.TrimSpace(m.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(m.Type) == "" {
		missing = append(missing, "type")
	}
	if strings.TrimSpace(m.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(m.Version) == "" {
		missing = append(missing, "version")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s", strings.Join(missing, ", "))
	}

	return nil
}

func checkVersion(m *model.Model) error {
	if _, err := semver.NewVersion(m.Version); err != nil {
		return fmt.Errorf("version %q is not a semantic version", m.Version)
	}

	return nil
}

func checkDependencies(m *model.Model) error {
	for _, ids := range [][]string{m.Dependencies.Upstream, m.Dependencies.Downstream} {
		seen := mapset.NewThreadUnsafeSet[string]()
		for _, id := range ids {
			if strings.TrimSpace(id) == "" {
				return errors.New("empty dependency id")
			}
			if id == m.ID {
				return errors.New("model depends on itself")
			}
			if !seen.Add(id) {
				return fmt.Errorf("dependency %s listed twice", id)
			}
		}
	}

	return nil
}

var namePattern = regexp.MustCompile(`^[\p{L}\p{N}][\p{L}\p{N} _.()\-]{0,127}$`)

func checkNaming(m *model.Model) error {
	if !namePattern.MatchString(m.Name) {
		return fmt.Errorf("name %q does not follow the naming convention", m.Name)
	}

	return nil
}

func checkInterfaces(m *model.Model) error {
	upstream := mapset.NewThreadUnsafeSet[string](m.Dependencies.Upstream...)
	downstream := mapset.NewThreadUnsafeSet[string](m.Dependencies.Downstream...)
	if both := upstream.Intersect(downstream); both.Cardinality() > 0 {
		return fmt.Errorf("%v are both upstream and downstream", both.ToSlice())
	}

	return nil
}
