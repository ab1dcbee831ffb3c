package models

// Clone returns a deep copy of the document. Empty and nil slices are
// preserved as such so a cloned document encodes identically.
func (d *Document) Clone() Document {
	out := Document{MuscleGroups: cloneSlice(d.MuscleGroups)}
	if d.Plans != nil {
		out.Plans = make([]Plan, len(d.Plans))
		for i := range d.Plans {
			out.Plans[i] = d.Plans[i].Clone()
		}
	}
	if d.WorkoutSessions != nil {
		out.WorkoutSessions = make([]WorkoutSession, len(d.WorkoutSessions))
		for i := range d.WorkoutSessions {
			out.WorkoutSessions[i] = d.WorkoutSessions[i].Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the plan.
func (p Plan) Clone() Plan {
	p.Exercises = cloneSlice(p.Exercises)
	return p
}

// Clone returns a deep copy of the session.
func (s WorkoutSession) Clone() WorkoutSession {
	if s.Exercises != nil {
		logs := make([]ExerciseLog, len(s.Exercises))
		for i, l := range s.Exercises {
			logs[i] = l.Clone()
		}
		s.Exercises = logs
	}
	return s
}

// Clone returns a deep copy of the log.
func (l ExerciseLog) Clone() ExerciseLog {
	l.Sets = cloneSlice(l.Sets)
	return l
}

func cloneSlice[S ~[]E, E any](s S) S {
	if s == nil {
		return nil
	}
	out := make(S, len(s))
	copy(out, s)
	return out
}
