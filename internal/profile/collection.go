package profile

// Candidates is an ordered candidate population.
type Candidates struct {
	Items []*Candidate
}

func (c *Candidates) Len() int {
	return len(c.Items)
}

func (c *Candidates) IDs() []string {
	ids := make([]string, 0, len(c.Items))
	for _, v := range c.Items {
		ids = append(ids, v.ID)
	}
	return ids
}

func (c *Candidates) FindByID(id string) *Candidate {
	for _, candidate := range c.Items {
		if candidate.ID == id {
			return candidate
		}
	}
	return nil
}

// Jobs is an ordered list of job openings.
type Jobs struct {
	Items []*Job
}

func (j *Jobs) Len() int {
	return len(j.Items)
}

func (j *Jobs) FindByID(id string) *Job {
	for _, job := range j.Items {
		if job.ID == id {
			return job
		}
	}
	return nil
}
