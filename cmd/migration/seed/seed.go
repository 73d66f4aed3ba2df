package seed

import (
	"recruiter/config"
	"recruiter/internal/logger"
	. "recruiter/internal/models"
	"recruiter/internal/scoring"

	"gorm.io/gorm"
)

func stringPtr(s string) *string {
	return &s
}

// Seed creates a demo campaign with one test per pipeline stage, wired
// together so a full application can run end to end locally.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	var existing Campaign
	if err := db.First(&existing, "name = ?", "Backend Developer 2026").Error; err == nil {
		log.Info("Demo campaign already exists", "campaignID", existing.ID)
		return nil
	}

	campaign := Campaign{
		Name:                  "Backend Developer 2026",
		IsActive:              true,
		Po1Weight:             50,
		Po25Weight:            50,
		Po3Weight:             50,
		Po2TokenExpiryDays:    7,
		Po25TokenExpiryDays:   7,
		Po3TokenExpiryDays:    3,
		InterviewEmailSubject: "Your next step: {stage}",
		InterviewEmailContent: "Hello {firstName},\n\nyour next test is ready: {url}\nThe link is valid until {expiry}.\n",
	}
	if err := db.Create(&campaign).Error; err != nil {
		return log.Err("failed to create demo campaign", err)
	}

	screening := Test{
		CampaignID:       campaign.ID,
		Stage:            StagePO1,
		Name:             "Initial screening",
		PassingThreshold: 10,
		Questions: []Question{
			{
				Text:          "Are you legally allowed to work in the EU?",
				AnswerType:    AnswerBoolean,
				AlgorithmType: AlgorithmExactMatch,
				Points:        5,
				OrderNumber:   1,
				IsCritical:    true,
				AlgorithmParams: AlgorithmParams{
					Correct: stringPtr("true"),
				},
			},
			{
				Text:          "How many years of backend experience do you have?",
				AnswerType:    AnswerScale,
				AlgorithmType: AlgorithmLeftSided,
				Points:        10,
				OrderNumber:   2,
				AlgorithmParams: AlgorithmParams{
					Min:     stringPtr("0"),
					Correct: stringPtr("5"),
				},
			},
			{
				Text:          "Expected monthly salary",
				AnswerType:    AnswerSalary,
				AlgorithmType: AlgorithmRightSided,
				Points:        5,
				OrderNumber:   3,
				AlgorithmParams: AlgorithmParams{
					Correct: stringPtr("8000"),
					Max:     stringPtr("14000"),
				},
			},
			{
				Text:          "Earliest start date",
				AnswerType:    AnswerDate,
				AlgorithmType: AlgorithmRange,
				Points:        5,
				OrderNumber:   4,
				AlgorithmParams: AlgorithmParams{
					Min: stringPtr("2026-09-01"),
					Max: stringPtr("2026-12-31"),
				},
			},
		},
	}

	personality := Test{
		CampaignID: campaign.ID,
		Stage:      StagePO2,
		Name:       "Personality questionnaire",
		Questions:  eqQuestions(),
	}

	evaluation := Test{
		CampaignID:       campaign.ID,
		Stage:            StagePO25,
		Name:             "Personality evaluation",
		PassingThreshold: 20,
		Questions:        traitQuestions(),
	}

	interview := Test{
		CampaignID:       campaign.ID,
		Stage:            StagePO3,
		Name:             "Written interview",
		PassingThreshold: 15,
		TimeLimitMinutes: 60,
		Questions: []Question{
			{
				Text:          "Describe a production incident you handled and what you changed afterwards.",
				AnswerType:    AnswerText,
				AlgorithmType: AlgorithmEvaluationAI,
				Points:        20,
				OrderNumber:   1,
				AlgorithmParams: AlgorithmParams{
					Rubric: "Award points for concrete detail, ownership and a followup that prevented recurrence.",
				},
			},
			{
				Text:          "On a scale of 1-10, how comfortable are you with on-call duty?",
				AnswerType:    AnswerScale,
				AlgorithmType: AlgorithmCenter,
				Points:        10,
				OrderNumber:   2,
				AlgorithmParams: AlgorithmParams{
					Min:     stringPtr("1"),
					Max:     stringPtr("10"),
					Correct: stringPtr("7"),
				},
			},
		},
	}

	tests := []*Test{&screening, &personality, &evaluation, &interview}
	for _, test := range tests {
		if err := db.Create(test).Error; err != nil {
			return log.Err("failed to create demo test", err, "name", test.Name)
		}
	}

	campaign.Po1TestID = &screening.ID
	campaign.Po2TestID = &personality.ID
	campaign.Po25TestID = &evaluation.ID
	campaign.Po3TestID = &interview.ID
	if err := db.Save(&campaign).Error; err != nil {
		return log.Err("failed to link demo tests", err)
	}

	log.Info("Demo campaign seeded", "campaignID", campaign.ID)
	return nil
}

// eqQuestions builds the seven forced-choice sections of the
// questionnaire. Candidates distribute points across the A-H options of
// each section.
func eqQuestions() []Question {
	sections := []string{
		"Distribute 10 points across the statements that describe you best.",
		"Distribute 10 points across the statements that describe how you handle pressure.",
		"Distribute 10 points across the statements that describe how you work with others.",
		"Distribute 10 points across the statements that describe how you make decisions.",
		"Distribute 10 points across the statements that describe how you react to change.",
		"Distribute 10 points across the statements that describe what motivates you.",
		"Distribute 10 points across the statements that describe how you communicate.",
	}

	questions := make([]Question, 0, len(sections))
	for i, text := range sections {
		questions = append(questions, Question{
			Text:          text,
			AnswerType:    AnswerAHPoints,
			AlgorithmType: AlgorithmNone,
			OrderNumber:   i + 1,
		})
	}
	return questions
}

// traitQuestions builds one RANGE question per trait. Question text must
// equal the trait code; that is how questionnaire results find their
// target question.
func traitQuestions() []Question {
	questions := make([]Question, 0, len(scoring.EqTraits))
	for i, trait := range scoring.EqTraits {
		questions = append(questions, Question{
			Text:          trait,
			AnswerType:    AnswerScale,
			AlgorithmType: AlgorithmRange,
			Points:        5,
			OrderNumber:   i + 1,
			AlgorithmParams: AlgorithmParams{
				Min: stringPtr("3"),
				Max: stringPtr("10"),
			},
		})
	}
	return questions
}
