package services

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/SAP-F-2025/learning-gap-service/internal/models"
)

// maxRecommendations caps the returned list; the cap is fixed, not a
// call-time option.
const maxRecommendations = 5

// ResourceResolver supplies external study links for a topic, optionally
// customized by class level. Implemented by internal/resources; injected
// so the engine never touches files or globals itself.
type ResourceResolver interface {
	ResolveResources(topic string, classLevel int) models.ResourceLinks
}

// RecommendationService maps gap findings to ranked intervention
// recommendations.
type RecommendationService interface {
	// GenerateRecommendations returns at most five recommendations sorted
	// by severity (descending, stable). A finding-free analysis yields
	// exactly one maintenance recommendation. classLevel 0 means unknown.
	GenerateRecommendations(analysis models.StudentAnalysis, classLevel int) []models.Recommendation

	// EstimateImprovementTime estimates how long addressing a gap of the
	// given severity takes.
	EstimateImprovementTime(severity models.Severity) string
}

type recommendationService struct {
	resolver ResourceResolver
	library  map[string]interventionInfo
	logger   *slog.Logger
}

// interventionInfo holds per-topic practice metadata feeding the concept
// review template.
type interventionInfo struct {
	PracticeProblems int
	EstimatedTime    string
	KeyConcepts      []string
	PracticeLink     string
	ConceptGuideLink string
	InteractiveLink  string
}

func NewRecommendationService(resolver ResourceResolver, logger *slog.Logger) RecommendationService {
	return &recommendationService{
		resolver: resolver,
		library:  buildInterventionLibrary(),
		logger:   logger,
	}
}

func (s *recommendationService) GenerateRecommendations(analysis models.StudentAnalysis, classLevel int) []models.Recommendation {
	findings := sortedFindings(analysis.Gaps)

	var recommendations []models.Recommendation
	for _, finding := range findings {
		var rec *models.Recommendation
		switch finding.Kind {
		case models.GapKindConcept:
			rec = s.recommendConceptReview(finding, classLevel)
		case models.GapKindConfidence:
			rec = s.recommendConfidenceBuilding(finding)
		case models.GapKindSpeed:
			rec = s.recommendDeliberatePractice(finding)
		default:
			// Unrecognized kinds are skipped, not an error.
			continue
		}
		recommendations = append(recommendations, *rec)
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations, s.maintenanceRecommendation())
	}

	if len(recommendations) > maxRecommendations {
		recommendations = recommendations[:maxRecommendations]
	}
	return recommendations
}

// sortedFindings orders findings by severity descending. The sort is
// stable over a deterministic base order: concept gaps by key, then the
// confidence gap, then the speed gap.
func sortedFindings(gaps map[string]models.GapFinding) []models.GapFinding {
	keys := make([]string, 0, len(gaps))
	for key := range gaps {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	findings := make([]models.GapFinding, 0, len(keys))
	for _, key := range keys {
		findings = append(findings, gaps[key])
	}
	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Severity.Rank() > findings[j].Severity.Rank()
	})
	return findings
}

// recommendConceptReview builds a topic review personalized by trend and
// the severity x trend intensity table.
func (s *recommendationService) recommendConceptReview(finding models.GapFinding, classLevel int) *models.Recommendation {
	topic := finding.Topic
	library := s.library[strings.ToLower(topic)]

	practiceProblems := library.PracticeProblems
	if practiceProblems == 0 {
		practiceProblems = 10
	}
	keyConcepts := "core concepts"
	if len(library.KeyConcepts) > 0 {
		keyConcepts = strings.Join(library.KeyConcepts, ", ")
	}

	trend := finding.Trend
	if trend == "" {
		trend = models.TrendStable
	}

	var descriptionPrefix, actionSuffix string
	switch trend {
	case models.TrendDeclining:
		descriptionPrefix = "Urgent: Student's understanding is deteriorating. "
		actionSuffix = "Focus on foundational concepts."
	case models.TrendImproving:
		descriptionPrefix = "Student is showing progress, but still has a gap. "
		actionSuffix = "Reinforce learning with varied problems."
	default:
		descriptionPrefix = "Consistent difficulty. "
		actionSuffix = "Address specific misconceptions."
	}

	// Practice intensity by severity and trend. These are literal cases,
	// not a continuous scale.
	var practiceType, duration string
	switch {
	case finding.Severity == models.SeverityHigh && trend == models.TrendDeclining:
		practiceType = "Foundational Review + Intensive Practice"
		duration = "1-2 weeks, 45-60 min daily"
		if practiceProblems < 20 {
			practiceProblems = 20
		}
	case finding.Severity == models.SeverityMedium && trend == models.TrendDeclining:
		practiceType = "Targeted Review + Extra Practice"
		duration = "1 week, 30-45 min daily"
		if practiceProblems < 15 {
			practiceProblems = 15
		}
	case trend == models.TrendImproving && finding.Severity != models.SeverityLow:
		practiceType = "Reinforcement + Challenge Problems"
		duration = "3-5 days, 20-30 min daily"
		if practiceProblems > 10 {
			practiceProblems = 10
		}
	default:
		practiceType = "Structured Review + Practice"
		duration = "2-3 days, 30-45 min daily"
	}

	resources := models.ResourceLinks{}
	if library.PracticeLink != "" {
		resources["Practice Questions"] = []string{library.PracticeLink}
	}
	if library.ConceptGuideLink != "" {
		resources["Concept Guide"] = []string{library.ConceptGuideLink}
	}
	if library.InteractiveLink != "" {
		resources["Interactive/Visual Guide"] = []string{library.InteractiveLink}
	}
	if s.resolver != nil {
		for category, links := range s.resolver.ResolveResources(topic, classLevel) {
			if len(links) > 0 {
				resources[category] = links
			}
		}
	}

	title := fmt.Sprintf("Personalized %s Intervention (%s)", topic, titleCase(trend))
	description := fmt.Sprintf("%sStruggling with %s (%.1f%% confidence). %s",
		descriptionPrefix, topic, finding.Confidence*100, actionSuffix)

	return &models.Recommendation{
		Title:          title,
		Description:    description,
		Priority:       finding.Severity,
		PracticeType:   practiceType,
		TargetTopics:   []string{topic},
		Duration:       duration,
		ExpectedImpact: 0.25,
		Steps: []string{
			fmt.Sprintf("Revisit key concepts: %s", keyConcepts),
			fmt.Sprintf("Work through %d-%d guided example problems", practiceProblems/2, practiceProblems/2+5),
			fmt.Sprintf("Practice %d varied problems on %s", practiceProblems, topic),
			"Use the listed learning resources for deeper understanding and additional practice",
			"Take a follow-up assessment to check understanding",
			"Seek teacher support for persistent difficulties",
		},
		Resources: resources,
	}
}

func (s *recommendationService) recommendConfidenceBuilding(finding models.GapFinding) *models.Recommendation {
	return &models.Recommendation{
		Title:          "Confidence & Clarity Building",
		Description:    finding.Description,
		Priority:       finding.Severity,
		PracticeType:   "Guided Problem-Solving",
		TargetTopics:   []string{"All covered topics"},
		Duration:       "1-2 weeks, 20 min daily",
		ExpectedImpact: 0.20,
		Steps: []string{
			"Start with easier problems to build momentum",
			"Work through step-by-step solutions",
			"Write down reasoning before answering",
			"Review mistakes carefully",
			"Gradually increase difficulty",
		},
	}
}

func (s *recommendationService) recommendDeliberatePractice(finding models.GapFinding) *models.Recommendation {
	return &models.Recommendation{
		Title:          "Deliberate, Focused Practice",
		Description:    finding.Description,
		Priority:       models.SeverityMedium,
		PracticeType:   "Slow & Thoughtful Practice",
		TargetTopics:   []string{"Problem-solving strategy"},
		Duration:       "1 week, 25 min daily",
		ExpectedImpact: 0.15,
		Steps: []string{
			"Set a timer for 3-5 minutes per problem",
			"Read the question carefully twice",
			"Plan your approach before answering",
			"Work through each step deliberately",
			"Double-check your answer",
		},
	}
}

// maintenanceRecommendation is returned when no gaps produced any
// recommendation; the student is on track.
func (s *recommendationService) maintenanceRecommendation() models.Recommendation {
	return models.Recommendation{
		Title:          "Continued Practice & Advancement",
		Description:    "Student is performing well; continue with current pace",
		Priority:       models.SeverityLow,
		PracticeType:   "Regular Practice + Challenge",
		TargetTopics:   []string{"All topics"},
		Duration:       "Ongoing",
		ExpectedImpact: 0.10,
		Steps: []string{
			"Continue regular daily practice",
			"Try progressively harder problems",
			"Explore different problem types",
			"Help other students",
		},
	}
}

func (s *recommendationService) EstimateImprovementTime(severity models.Severity) string {
	switch severity {
	case models.SeverityHigh:
		return "2-3 weeks"
	case models.SeverityMedium:
		return "1-2 weeks"
	case models.SeverityLow:
		return "3-5 days"
	default:
		return "1 week"
	}
}

// buildInterventionLibrary returns the per-topic practice metadata used by
// the concept review template. Keys are lowercase topic names.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func buildInterventionLibrary() map[string]interventionInfo {
	return map[string]interventionInfo{
		"arithmetic": {
			PracticeProblems: 20,
			EstimatedTime:    "30 minutes",
			KeyConcepts:      []string{"Addition", "Subtraction", "Multiplication", "Division"},
			PracticeLink:     "https://www.khanacademy.org/math/arithmetic",
			ConceptGuideLink: "https://www.mathplanet.com/education/pre-algebra/discover-basic-math/arithmetic-properties",
			InteractiveLink:  "https://www.mathsisfun.com/numbers/index.html",
		},
		"fractions": {
			PracticeProblems: 15,
			EstimatedTime:    "45 minutes",
			KeyConcepts:      []string{"Numerator", "Denominator", "Simplification", "Comparison", "Operations"},
			PracticeLink:     "https://www.khanacademy.org/math/arithmetic/fractions",
			ConceptGuideLink: "https://www.mathplanet.com/education/pre-algebra/fractions/what-is-a-fraction",
			InteractiveLink:  "https://www.mathsisfun.com/fractions-menu.html",
		},
		"algebra": {
			PracticeProblems: 12,
			EstimatedTime:    "60 minutes",
			KeyConcepts:      []string{"Variables", "Equations", "Solving", "Substitution", "Expressions"},
			PracticeLink:     "https://www.khanacademy.org/math/algebra",
			ConceptGuideLink: "https://www.mathplanet.com/education/algebra",
			InteractiveLink:  "https://www.desmos.com/calculator",
		},
		"geometry": {
			PracticeProblems: 10,
			EstimatedTime:    "50 minutes",
			KeyConcepts:      []string{"Shapes", "Area", "Perimeter", "Angles", "Theorems"},
			PracticeLink:     "https://www.khanacademy.org/math/geometry",
			ConceptGuideLink: "https://www.mathplanet.com/education/geometry",
			InteractiveLink:  "https://www.geogebra.org/geometry",
		},
		"data analysis": {
			PracticeProblems: 8,
			EstimatedTime:    "55 minutes",
			KeyConcepts:      []string{"Mean", "Median", "Mode", "Graphs", "Probability"},
			PracticeLink:     "https://www.khanacademy.org/math/statistics-probability/displaying-describing-data",
			ConceptGuideLink: "https://www.khanacademy.org/math/statistics-probability",
			InteractiveLink:  "https://phet.colorado.edu/en/simulations/filter?subjects=math&type=html",
		},
		"physics": {
			PracticeProblems: 10,
			EstimatedTime:    "60 minutes",
			KeyConcepts:      []string{"Kinematics", "Forces", "Energy", "Momentum"},
			PracticeLink:     "https://www.khanacademy.org/science/physics",
			ConceptGuideLink: "https://www.physicsclassroom.com/class",
			InteractiveLink:  "https://phet.colorado.edu/en/simulations/filter?subjects=physics&type=html",
		},
		"chemistry": {
			PracticeProblems: 10,
			EstimatedTime:    "60 minutes",
			KeyConcepts:      []string{"Atoms", "Molecules", "Stoichiometry", "Reactions"},
			PracticeLink:     "https://www.khanacademy.org/science/chemistry",
			ConceptGuideLink: "https://www.acs.org/education/resources/highschool.html",
			InteractiveLink:  "https://phet.colorado.edu/en/simulations/filter?subjects=chemistry&type=html",
		},
	}
}
