package ralgo

import "context"

// TblSteps is the name of the sql database table that holds one row per
// r-algorithm run made by a Controller: the step it started with, the
// radius before and after, and whether the result was accepted.
const TblSteps = "ralgosteps"

func (c *Controller) initdb(ctx context.Context) error {
	if c.Db == nil {
		return nil
	}

	s := "CREATE TABLE IF NOT EXISTS " + TblSteps + " (run TEXT,call INTEGER,step REAL,radius REAL,candidate REAL,accepted INTEGER,iterations INTEGER,evals INTEGER,val REAL);"
	_, err := c.Db.ExecContext(ctx, s)
	return err
}

func (c *Controller) updateDb(ctx context.Context, call int, step, radius, candidate float64, accepted bool, m Minimum) error {
	if c.Db == nil {
		return nil
	}

	acc := 0
	if accepted {
		acc = 1
	}
	s := "INSERT INTO " + TblSteps + " (run,call,step,radius,candidate,accepted,iterations,evals,val) VALUES (?,?,?,?,?,?,?,?,?);"
	_, err := c.Db.ExecContext(ctx, s, c.RunID, call, step, radius, candidate, acc, m.Iterations, m.Evals, m.F)
	return err
}
