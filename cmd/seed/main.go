// Command seed loads the canonical classification hierarchy into a catalog
// database. Every row goes through the service so the same validation that
// guards the API guards the seed.
package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/engnohamahmoudamayem/edu-catalog/pkg/catalog"
	"github.com/engnohamahmoudamayem/edu-catalog/pkg/catalog/config"
)

type envConfig struct {
	DatabaseType string `env:"DATABASE_TYPE" env-default:"postgres"`
	DatabaseURL  string `env:"DATABASE_URL" env-default:""`
}

type stageSeed struct {
	name     string
	terms    []string
	grades   []string
	subjects []string
}

var stages = []stageSeed{
	{
		name:   "الابتدائية",
		terms:  []string{"الفصل الأول", "الفصل الثاني"},
		grades: []string{"الصف الأول", "الصف الثانى", "الصف الثالث", "الصف الرابع", "الصف الخامس"},
		subjects: []string{
			"الرياضيات", "اللغة العربية", "العلوم",
			"اللغة الإنجليزية", "التربية الإسلامية", "الدراسات الاجتماعية",
		},
	},
	{
		name:   "المتوسطة",
		terms:  []string{"الفصل الأول", "الفصل الثاني"},
		grades: []string{"الصف السادس", "الصف السابع", "الصف الثامن", "الصف التاسع"},
		subjects: []string{
			"الرياضيات", "العلوم", "اللغة الإنجليزية", "اللغة العربية", "الاجتماعيات",
		},
	},
	{
		name:   "الثانوية",
		terms:  []string{"الفصل الأول", "الفصل الثاني"},
		grades: []string{"عاشر", "حادي عشر علمي", "حادي عشر أدبي", "ثاني عشر علمي", "ثاني عشر أدبي"},
		subjects: []string{
			"الفيزياء", "الكيمياء", "الأحياء", "الرياضيات",
			"اللغة العربية", "اللغة الإنجليزية", "الفلسفة", "الإحصاء",
		},
	},
}

var contentTypes = map[string][]string{
	"مذكرات":   {"مذكرات نيو", "مذكرات أخرى"},
	"اختبارات": {"قصير أول", "قصير ثاني", "فاينال", "أوراق عمل"},
	"فيديوهات": {"مراجعة", "حل اختبارات"},
}

func main() {
	_ = godotenv.Load()

	var env envConfig
	if err := cleanenv.ReadEnv(&env); err != nil {
		log.Fatalf("Failed to read environment: %v", err)
	}

	cfg, err := config.Load(config.WithDatabase(env.DatabaseType, env.DatabaseURL))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	svc, err := cfg.BuildService(ctx)
	if err != nil {
		log.Fatalf("Failed to build service: %v", err)
	}

	if err := seed(ctx, svc); err != nil {
		log.Fatalf("Seed failed: %v", err)
	}

	slog.Info("seed complete",
		"stages", len(stages), "content_types", len(contentTypes))
}

func seed(ctx context.Context, svc catalog.Service) error {
	for _, s := range stages {
		stage, err := svc.CreateStage(ctx, catalog.CreateStageRequest{Name: s.name})
		if err != nil {
			return err
		}

		for _, term := range s.terms {
			if _, err := svc.CreateTerm(ctx, catalog.CreateTermRequest{
				StageID: stage.ID,
				Name:    term,
			}); err != nil {
				return err
			}
		}

		for _, gradeName := range s.grades {
			grade, err := svc.CreateGrade(ctx, catalog.CreateGradeRequest{
				StageID: stage.ID,
				Name:    gradeName,
			})
			if err != nil {
				return err
			}

			for _, subject := range s.subjects {
				if _, err := svc.CreateSubject(ctx, catalog.CreateSubjectRequest{
					GradeID: grade.ID,
					Name:    subject,
				}); err != nil {
					return err
				}
			}
		}
	}

	for typeName, subtypes := range contentTypes {
		ct, err := svc.CreateContentType(ctx, catalog.CreateContentTypeRequest{Name: typeName})
		if err != nil {
			return err
		}

		for _, subtype := range subtypes {
			if _, err := svc.CreateContentSubtype(ctx, catalog.CreateContentSubtypeRequest{
				TypeID: ct.ID,
				Name:   subtype,
			}); err != nil {
				return err
			}
		}
	}

	return nil
}
