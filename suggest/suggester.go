package suggest

import (
	"incident-intel-service/models"
)

// Action is one templated response step.
type Action struct {
	Text   string
	Urgent bool
}

// Templates maps category x priority tier to a fixed ordered action list.
type Templates map[models.Category]map[models.Priority][]Action

// Suggester returns deterministic response playbooks for an incident. It
// holds only immutable template tables and is safe for concurrent use.
type Suggester struct {
	templates Templates
}

// New creates a suggester from the given templates.
func New(templates Templates) *Suggester {
	return &Suggester{templates: templates}
}

// SuggestActions looks up the ordered action template for the incident's
// category and priority tier. Same input always yields the same list; the
// returned slice is freshly allocated so callers may reorder it.
func (s *Suggester) SuggestActions(incident models.IncidentReport) ([]models.ResponseSuggestion, error) {
	if incident.Category == "" {
		return nil, models.Validationf("category", "must be set before suggesting actions")
	}
	if incident.Priority == "" {
		return nil, models.Validationf("priority", "must be set before suggesting actions")
	}

	byTier, ok := s.templates[incident.Category]
	if !ok {
		byTier = s.templates[models.CategoryOther]
	}
	actions, ok := byTier[incident.Priority]
	if !ok {
		return nil, models.Validationf("priority", "unknown priority %q", incident.Priority)
	}

	suggestions := make([]models.ResponseSuggestion, 0, len(actions))
	for i, a := range actions {
		suggestions = append(suggestions, models.ResponseSuggestion{
			Priority: i + 1,
			Action:   a.Text,
			Urgent:   a.Urgent,
		})
	}
	return suggestions, nil
}

// DefaultTemplates returns the built-in response playbooks. The urgent
// flag is part of the template data, never recomputed from the text.
func DefaultTemplates() Templates {
	return Templates{
		models.CategoryCrime: {
			models.PriorityMinor: {
				{Text: "Log the report in the blotter"},
				{Text: "Schedule a patrol pass through the area"},
				{Text: "Advise the reporter on evidence preservation"},
			},
			models.PriorityUrgent: {
				{Text: "Dispatch the nearest patrol unit", Urgent: true},
				{Text: "Notify the police sub-station"},
				{Text: "Interview witnesses at the scene"},
				{Text: "Log the report in the blotter"},
			},
			models.PriorityEmergency: {
				{Text: "Dispatch all available patrol units", Urgent: true},
				{Text: "Call the police emergency hotline", Urgent: true},
				{Text: "Secure the area and keep bystanders away", Urgent: true},
				{Text: "Document the scene once secured"},
			},
		},
		models.CategoryNoise: {
			models.PriorityMinor: {
				{Text: "Issue a verbal reminder to the household"},
				{Text: "Log the complaint in the blotter"},
			},
			models.PriorityUrgent: {
				{Text: "Dispatch a patrol to the location", Urgent: true},
				{Text: "Issue a formal warning"},
				{Text: "Document the violation"},
			},
			models.PriorityEmergency: {
				{Text: "Dispatch a patrol immediately", Urgent: true},
				{Text: "Check for signs of a larger disturbance", Urgent: true},
				{Text: "Issue a citation under the noise ordinance"},
			},
		},
		models.CategoryDispute: {
			models.PriorityMinor: {
				{Text: "Invite both parties for mediation at the hall"},
				{Text: "Log the dispute in the blotter"},
			},
			models.PriorityUrgent: {
				{Text: "Send a tanod to de-escalate on site", Urgent: true},
				{Text: "Separate the parties and take statements"},
				{Text: "Schedule a mediation session"},
			},
			models.PriorityEmergency: {
				{Text: "Dispatch patrol to prevent violence", Urgent: true},
				{Text: "Call police backup if weapons are involved", Urgent: true},
				{Text: "Bring the parties to the hall once calm"},
			},
		},
		models.CategoryHazard: {
			models.PriorityMinor: {
				{Text: "Mark the hazard with visible warnings"},
				{Text: "Report to the municipal engineering office"},
			},
			models.PriorityUrgent: {
				{Text: "Cordon off the hazard area", Urgent: true},
				{Text: "Redirect foot and vehicle traffic"},
				{Text: "Report to the municipal engineering office"},
			},
			models.PriorityEmergency: {
				{Text: "Evacuate residents in the danger zone", Urgent: true},
				{Text: "Call fire/rescue services", Urgent: true},
				{Text: "Cordon off the area", Urgent: true},
				{Text: "Coordinate with the disaster risk office"},
			},
		},
		models.CategoryHealth: {
			models.PriorityMinor: {
				{Text: "Refer the resident to the health center"},
				{Text: "Log the assistance request"},
			},
			models.PriorityUrgent: {
				{Text: "Send a first-aid trained tanod", Urgent: true},
				{Text: "Contact the barangay health worker"},
				{Text: "Arrange transport to the health center"},
			},
			models.PriorityEmergency: {
				{Text: "Call an ambulance", Urgent: true},
				{Text: "Send the nearest first-aid trained tanod", Urgent: true},
				{Text: "Clear the route for the ambulance", Urgent: true},
				{Text: "Notify the family of the patient"},
			},
		},
		models.CategoryUtility: {
			models.PriorityMinor: {
				{Text: "Report the issue to the utility provider"},
				{Text: "Log the report for follow-up"},
			},
			models.PriorityUrgent: {
				{Text: "Check for safety hazards around the fault", Urgent: true},
				{Text: "Report to the utility provider's hotline"},
				{Text: "Post an advisory for affected residents"},
			},
			models.PriorityEmergency: {
				{Text: "Keep residents away from live wires or leaks", Urgent: true},
				{Text: "Call the utility emergency line", Urgent: true},
				{Text: "Cordon off the affected stretch"},
			},
		},
		models.CategoryOther: {
			models.PriorityMinor: {
				{Text: "Log the report in the blotter"},
				{Text: "Assess during the next patrol round"},
			},
			models.PriorityUrgent: {
				{Text: "Send a tanod to assess the situation", Urgent: true},
				{Text: "Log the report in the blotter"},
			},
			models.PriorityEmergency: {
				{Text: "Dispatch the nearest patrol unit", Urgent: true},
				{Text: "Escalate to the barangay captain", Urgent: true},
				{Text: "Log the report in the blotter"},
			},
		},
	}
}
