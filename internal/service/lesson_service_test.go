package service

import (
	"errors"
	"testing"
	"time"

	"habitquest/internal/models"
)

func fourQuestionQuiz() *models.LessonQuiz {
	return &models.LessonQuiz{Questions: []models.LessonQuizQuestion{
		{Text: "Q1", Options: []string{"right", "wrong"}, Correct: 0},
		{Text: "Q2", Options: []string{"wrong", "right"}, Correct: 1},
		{Text: "Q3", Options: []string{"right", "wrong"}, Correct: 0, Explanation: "Because."},
		{Text: "Q4", Options: []string{"wrong", "right"}, Correct: 1},
	}}
}

func TestMarkStudiedWithoutQuizCompletes(t *testing.T) {
	db := newTestDB(t)
	svc := NewLessonService(db)
	user := createTestUser(t, db, 3000)
	courseID := createTestCourse(t, db, 1)
	lessonID := createTestLesson(t, db, courseID, 1, nil)

	lp, err := svc.MarkStudied(user.ID, lessonID, time.Now())
	if err != nil {
		t.Fatalf("MarkStudied() error = %v", err)
	}
	if lp.Status != models.LessonStatusCompleted {
		t.Errorf("status = %q, want %q for a lesson with no quiz", lp.Status, models.LessonStatusCompleted)
	}
	if lp.CompletedAt == nil {
		t.Error("CompletedAt not set")
	}
}

func TestMarkStudiedWithQuizStaysStudied(t *testing.T) {
	db := newTestDB(t)
	svc := NewLessonService(db)
	user := createTestUser(t, db, 3001)
	courseID := createTestCourse(t, db, 1)
	lessonID := createTestLesson(t, db, courseID, 1, fourQuestionQuiz())

	lp, err := svc.MarkStudied(user.ID, lessonID, time.Now())
	if err != nil {
		t.Fatalf("MarkStudied() error = %v", err)
	}
	if lp.Status != models.LessonStatusStudied {
		t.Errorf("status = %q, want %q while the quiz is open", lp.Status, models.LessonStatusStudied)
	}
}

func TestGetForDayLocked(t *testing.T) {
	db := newTestDB(t)
	lessons := NewLessonService(db)
	courses := NewCourseService(db)
	user := createTestUser(t, db, 3002)
	courseID := createTestCourse(t, db, 3)
	createTestLesson(t, db, courseID, 1, nil)
	createTestLesson(t, db, courseID, 2, nil)

	// Not enrolled yet
	if _, err := lessons.GetForDay(user.ID, courseID, 1); !errors.Is(err, ErrLocked) {
		t.Errorf("GetForDay() before enrolling error = %v, want ErrLocked", err)
	}

	if _, err := courses.Start(user.ID, courseID); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if _, err := lessons.GetForDay(user.ID, courseID, 1); err != nil {
		t.Errorf("GetForDay() day 1 error = %v", err)
	}
	if _, err := lessons.GetForDay(user.ID, courseID, 2); !errors.Is(err, ErrLocked) {
		t.Errorf("GetForDay() day 2 error = %v, want ErrLocked", err)
	}
}

func TestSubmitQuizAnswerValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewLessonService(db)
	user := createTestUser(t, db, 3003)
	courseID := createTestCourse(t, db, 1)
	quizless := createTestLesson(t, db, courseID, 1, nil)
	lessonID := createTestLesson(t, db, courseID, 2, fourQuestionQuiz())

	now := time.Now()
	cases := []struct {
		name     string
		lesson   int64
		question int
		answer   int
		want     error
	}{
		{"unknown lesson", 99999, 0, 0, ErrNotFound},
		{"lesson without quiz", quizless, 0, 0, ErrValidation},
		{"question index out of range", lessonID, 4, 0, ErrValidation},
		{"negative question index", lessonID, -1, 0, ErrValidation},
		{"answer out of range", lessonID, 0, 2, ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SubmitQuizAnswer(user.ID, tc.lesson, tc.question, tc.answer, now)
			if !errors.Is(err, tc.want) {
				t.Errorf("SubmitQuizAnswer() error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestLessonQuizPassAtSeventyFivePercent(t *testing.T) {
	db := newTestDB(t)
	svc := NewLessonService(db)
	user := createTestUser(t, db, 3004)
	courseID := createTestCourse(t, db, 1)
	lessonID := createTestLesson(t, db, courseID, 1, fourQuestionQuiz())

	now := time.Now()
	if _, err := svc.MarkStudied(user.ID, lessonID, now); err != nil {
		t.Fatalf("MarkStudied() error = %v", err)
	}

	// Three right, one wrong: 3/4 = 75%, over the 70% bar
	answers := []struct {
		question int
		answer   int
		correct  bool
	}{
		{0, 0, true},
		{1, 1, true},
		{2, 1, false},
		{3, 1, true},
	}
	var last *QuizAnswerResult
	for i, a := range answers {
		result, err := svc.SubmitQuizAnswer(user.ID, lessonID, a.question, a.answer, now)
		if err != nil {
			t.Fatalf("SubmitQuizAnswer() #%d error = %v", i+1, err)
		}
		if result.Correct != a.correct {
			t.Errorf("answer #%d: Correct = %v, want %v", i+1, result.Correct, a.correct)
		}
		if result.Answered != i+1 {
			t.Errorf("answer #%d: Answered = %d, want %d", i+1, result.Answered, i+1)
		}
		wantFinished := i == len(answers)-1
		if result.Finished != wantFinished {
			t.Errorf("answer #%d: Finished = %v, want %v", i+1, result.Finished, wantFinished)
		}
		last = result
	}

	if last.Score != 75 {
		t.Errorf("Score = %d, want 75", last.Score)
	}
	if !last.Passed {
		t.Error("Passed = false at 75%")
	}

	lp, err := svc.GetProgress(user.ID, lessonID)
	if err != nil {
		t.Fatalf("GetProgress() error = %v", err)
	}
	if lp.Status != models.LessonStatusQuizPassed {
		t.Errorf("lesson status = %q, want %q", lp.Status, models.LessonStatusQuizPassed)
	}
}

func TestLessonQuizScoresEveryAnswer(t *testing.T) {
	db := newTestDB(t)
	svc := NewLessonService(db)
	user := createTestUser(t, db, 3008)
	courseID := createTestCourse(t, db, 1)
	lessonID := createTestLesson(t, db, courseID, 1, fourQuestionQuiz())

	now := time.Now()
	if _, err := svc.MarkStudied(user.ID, lessonID, now); err != nil {
		t.Fatalf("MarkStudied() error = %v", err)
	}

	// Three correct answers out of four questions: the running score
	// crosses the bar before the sheet is even finished
	steps := []struct {
		question  int
		answer    int
		wantScore int
	}{
		{0, 0, 25},
		{1, 1, 50},
		{2, 0, 75},
	}
	for i, step := range steps {
		result, err := svc.SubmitQuizAnswer(user.ID, lessonID, step.question, step.answer, now)
		if err != nil {
			t.Fatalf("SubmitQuizAnswer() #%d error = %v", i+1, err)
		}
		if result.Score != step.wantScore {
			t.Errorf("answer #%d: Score = %d, want %d", i+1, result.Score, step.wantScore)
		}
		if result.Finished {
			t.Errorf("answer #%d: Finished = true with %d of 4 answered", i+1, i+1)
		}
		wantPassed := step.wantScore >= 70
		if result.Passed != wantPassed {
			t.Errorf("answer #%d: Passed = %v, want %v", i+1, result.Passed, wantPassed)
		}
	}

	// 75% promotes the lesson right away
	lp, err := svc.GetProgress(user.ID, lessonID)
	if err != nil {
		t.Fatalf("GetProgress() error = %v", err)
	}
	if lp.Status != models.LessonStatusQuizPassed {
		t.Errorf("lesson status = %q, want %q", lp.Status, models.LessonStatusQuizPassed)
	}

	quiz, err := svc.GetQuizResult(user.ID, lessonID)
	if err != nil {
		t.Fatalf("GetQuizResult() error = %v", err)
	}
	if quiz.LastScore != 75 {
		t.Errorf("stored LastScore = %d, want 75", quiz.LastScore)
	}
	if !quiz.Passed {
		t.Error("stored Passed = false after clearing the bar")
	}
}

func TestLessonQuizAttemptsCountFullPasses(t *testing.T) {
	db := newTestDB(t)
	svc := NewLessonService(db)
	user := createTestUser(t, db, 3009)
	courseID := createTestCourse(t, db, 1)
	lessonID := createTestLesson(t, db, courseID, 1, fourQuestionQuiz())

	now := time.Now()
	for q, a := range []int{0, 1, 1, 0} {
		if _, err := svc.SubmitQuizAnswer(user.ID, lessonID, q, a, now); err != nil {
			t.Fatalf("SubmitQuizAnswer() error = %v", err)
		}
	}

	quiz, err := svc.GetQuizResult(user.ID, lessonID)
	if err != nil {
		t.Fatalf("GetQuizResult() error = %v", err)
	}
	if quiz.Attempts != 1 {
		t.Fatalf("Attempts after one full pass = %d, want 1", quiz.Attempts)
	}

	// Re-answering questions on a finished sheet overwrites answers
	// without piling up extra attempts
	for _, fix := range []struct{ q, a int }{{2, 0}, {3, 1}} {
		if _, err := svc.SubmitQuizAnswer(user.ID, lessonID, fix.q, fix.a, now); err != nil {
			t.Fatalf("SubmitQuizAnswer() retake error = %v", err)
		}
	}
	quiz, err = svc.GetQuizResult(user.ID, lessonID)
	if err != nil {
		t.Fatalf("GetQuizResult() error = %v", err)
	}
	if quiz.Attempts != 1 {
		t.Errorf("Attempts after re-answering = %d, want 1", quiz.Attempts)
	}
}

func TestLessonQuizAnswerOverwriteByIndex(t *testing.T) {
	db := newTestDB(t)
	svc := NewLessonService(db)
	user := createTestUser(t, db, 3005)
	courseID := createTestCourse(t, db, 1)
	lessonID := createTestLesson(t, db, courseID, 1, fourQuestionQuiz())

	now := time.Now()

	// Answer the same question twice: first wrong, then right. The second
	// answer replaces the first instead of adding a second entry.
	if _, err := svc.SubmitQuizAnswer(user.ID, lessonID, 0, 1, now); err != nil {
		t.Fatalf("SubmitQuizAnswer() error = %v", err)
	}
	result, err := svc.SubmitQuizAnswer(user.ID, lessonID, 0, 0, now)
	if err != nil {
		t.Fatalf("SubmitQuizAnswer() repeat error = %v", err)
	}
	if result.Answered != 1 {
		t.Errorf("Answered = %d after re-answering one question, want 1", result.Answered)
	}

	quiz, err := svc.GetQuizResult(user.ID, lessonID)
	if err != nil {
		t.Fatalf("GetQuizResult() error = %v", err)
	}
	if len(quiz.Answers) != 1 {
		t.Fatalf("stored answers = %d, want 1", len(quiz.Answers))
	}
	if !quiz.Answers[0].Correct {
		t.Error("re-answer did not overwrite the stored verdict")
	}
}

func TestLessonQuizFailThenRetake(t *testing.T) {
	db := newTestDB(t)
	svc := NewLessonService(db)
	user := createTestUser(t, db, 3006)
	courseID := createTestCourse(t, db, 1)
	lessonID := createTestLesson(t, db, courseID, 1, fourQuestionQuiz())

	now := time.Now()
	if _, err := svc.MarkStudied(user.ID, lessonID, now); err != nil {
		t.Fatalf("MarkStudied() error = %v", err)
	}

	// Two right out of four: 50%, below the bar
	var last *QuizAnswerResult
	var err error
	for q, a := range []int{0, 1, 1, 0} {
		result, err := svc.SubmitQuizAnswer(user.ID, lessonID, q, a, now)
		if err != nil {
			t.Fatalf("SubmitQuizAnswer() error = %v", err)
		}
		last = result
	}
	if last.Score != 50 || last.Passed {
		t.Fatalf("first attempt: Score = %d Passed = %v, want 50 and false", last.Score, last.Passed)
	}

	lp, err := svc.GetProgress(user.ID, lessonID)
	if err != nil {
		t.Fatalf("GetProgress() error = %v", err)
	}
	if lp.Status != models.LessonStatusStudied {
		t.Errorf("lesson status after fail = %q, want %q", lp.Status, models.LessonStatusStudied)
	}

	// Fix the two wrong answers; the re-scored quiz now passes
	for _, fix := range []struct{ q, a int }{{2, 0}, {3, 1}} {
		if last, err = svc.SubmitQuizAnswer(user.ID, lessonID, fix.q, fix.a, now); err != nil {
			t.Fatalf("SubmitQuizAnswer() retake error = %v", err)
		}
	}
	if last.Score != 100 || !last.Passed {
		t.Fatalf("retake: Score = %d Passed = %v, want 100 and true", last.Score, last.Passed)
	}

	lp, err = svc.GetProgress(user.ID, lessonID)
	if err != nil {
		t.Fatalf("GetProgress() error = %v", err)
	}
	if lp.Status != models.LessonStatusQuizPassed {
		t.Errorf("lesson status after retake = %q, want %q", lp.Status, models.LessonStatusQuizPassed)
	}
}

func TestCheckLessonCompletionWaitsForSkills(t *testing.T) {
	db := newTestDB(t)
	lessons := NewLessonService(db)
	skills := NewSkillService(db, 5, 2.0)
	user := createTestUser(t, db, 3007)
	courseID := createTestCourse(t, db, 1)
	quiz := &models.LessonQuiz{Questions: []models.LessonQuizQuestion{
		{Text: "Q1", Options: []string{"right", "wrong"}, Correct: 0},
	}}
	lessonID := createTestLesson(t, db, courseID, 1, quiz)
	skillID := createLinkedSkill(t, db, courseID, 1)

	now := time.Now()
	if _, err := lessons.MarkStudied(user.ID, lessonID, now); err != nil {
		t.Fatalf("MarkStudied() error = %v", err)
	}
	if _, err := lessons.SubmitQuizAnswer(user.ID, lessonID, 0, 0, now); err != nil {
		t.Fatalf("SubmitQuizAnswer() error = %v", err)
	}

	done, err := lessons.CheckLessonCompletion(user.ID, lessonID, now)
	if err != nil {
		t.Fatalf("CheckLessonCompletion() error = %v", err)
	}
	if done {
		t.Error("lesson reported complete with its linked skill still open")
	}

	if _, err := skills.Start(user.ID, skillID, now); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if _, err := skills.Complete(user.ID, skillID, now); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	done, err = lessons.CheckLessonCompletion(user.ID, lessonID, now)
	if err != nil {
		t.Fatalf("CheckLessonCompletion() error = %v", err)
	}
	if !done {
		t.Error("lesson not complete after its linked skill finished")
	}
}
