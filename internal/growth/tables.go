package growth

// WHO Child Growth Standards, birth to 12 months, monthly rows.
var tables = map[tableKey][]Row{
	// Weight-for-age (kg), male
	{Male, Weight}: {
		{AgeMonths: 0, Percentiles: Percentiles{P3: 2.5, P15: 2.9, P50: 3.3, P85: 3.9, P97: 4.3}},
		{AgeMonths: 1, Percentiles: Percentiles{P3: 3.4, P15: 3.9, P50: 4.5, P85: 5.1, P97: 5.7}},
		{AgeMonths: 2, Percentiles: Percentiles{P3: 4.4, P15: 4.9, P50: 5.6, P85: 6.3, P97: 7.0}},
		{AgeMonths: 3, Percentiles: Percentiles{P3: 5.1, P15: 5.6, P50: 6.4, P85: 7.2, P97: 7.9}},
		{AgeMonths: 4, Percentiles: Percentiles{P3: 5.6, P15: 6.2, P50: 7.0, P85: 7.8, P97: 8.6}},
		{AgeMonths: 5, Percentiles: Percentiles{P3: 6.1, P15: 6.7, P50: 7.5, P85: 8.4, P97: 9.2}},
		{AgeMonths: 6, Percentiles: Percentiles{P3: 6.4, P15: 7.1, P50: 7.9, P85: 8.8, P97: 9.7}},
		{AgeMonths: 7, Percentiles: Percentiles{P3: 6.7, P15: 7.4, P50: 8.3, P85: 9.2, P97: 10.2}},
		{AgeMonths: 8, Percentiles: Percentiles{P3: 7.0, P15: 7.7, P50: 8.6, P85: 9.6, P97: 10.5}},
		{AgeMonths: 9, Percentiles: Percentiles{P3: 7.2, P15: 7.9, P50: 8.9, P85: 9.9, P97: 10.9}},
		{AgeMonths: 10, Percentiles: Percentiles{P3: 7.5, P15: 8.2, P50: 9.2, P85: 10.2, P97: 11.2}},
		{AgeMonths: 11, Percentiles: Percentiles{P3: 7.7, P15: 8.4, P50: 9.4, P85: 10.5, P97: 11.5}},
		{AgeMonths: 12, Percentiles: Percentiles{P3: 7.8, P15: 8.6, P50: 9.6, P85: 10.8, P97: 11.8}},
	},
	// Weight-for-age (kg), female
	{Female, Weight}: {
		{AgeMonths: 0, Percentiles: Percentiles{P3: 2.4, P15: 2.8, P50: 3.2, P85: 3.7, P97: 4.2}},
		{AgeMonths: 1, Percentiles: Percentiles{P3: 3.2, P15: 3.6, P50: 4.2, P85: 4.8, P97: 5.4}},
		{AgeMonths: 2, Percentiles: Percentiles{P3: 4.0, P15: 4.5, P50: 5.1, P85: 5.9, P97: 6.5}},
		{AgeMonths: 3, Percentiles: Percentiles{P3: 4.6, P15: 5.1, P50: 5.8, P85: 6.7, P97: 7.4}},
		{AgeMonths: 4, Percentiles: Percentiles{P3: 5.1, P15: 5.6, P50: 6.4, P85: 7.3, P97: 8.1}},
		{AgeMonths: 5, Percentiles: Percentiles{P3: 5.5, P15: 6.1, P50: 6.9, P85: 7.8, P97: 8.7}},
		{AgeMonths: 6, Percentiles: Percentiles{P3: 5.8, P15: 6.4, P50: 7.3, P85: 8.3, P97: 9.2}},
		{AgeMonths: 7, Percentiles: Percentiles{P3: 6.1, P15: 6.7, P50: 7.6, P85: 8.7, P97: 9.6}},
		{AgeMonths: 8, Percentiles: Percentiles{P3: 6.3, P15: 7.0, P50: 7.9, P85: 9.0, P97: 10.0}},
		{AgeMonths: 9, Percentiles: Percentiles{P3: 6.6, P15: 7.3, P50: 8.2, P85: 9.3, P97: 10.4}},
		{AgeMonths: 10, Percentiles: Percentiles{P3: 6.8, P15: 7.5, P50: 8.5, P85: 9.6, P97: 10.7}},
		{AgeMonths: 11, Percentiles: Percentiles{P3: 7.0, P15: 7.7, P50: 8.7, P85: 9.9, P97: 11.0}},
		{AgeMonths: 12, Percentiles: Percentiles{P3: 7.1, P15: 7.9, P50: 8.9, P85: 10.2, P97: 11.3}},
	},
	// Length-for-age (cm), male
	{Male, Height}: {
		{AgeMonths: 0, Percentiles: Percentiles{P3: 46.3, P15: 47.9, P50: 49.9, P85: 51.8, P97: 53.4}},
		{AgeMonths: 1, Percentiles: Percentiles{P3: 51.1, P15: 52.7, P50: 54.7, P85: 56.7, P97: 58.4}},
		{AgeMonths: 2, Percentiles: Percentiles{P3: 54.7, P15: 56.4, P50: 58.4, P85: 60.5, P97: 62.2}},
		{AgeMonths: 3, Percentiles: Percentiles{P3: 57.6, P15: 59.3, P50: 61.4, P85: 63.5, P97: 65.3}},
		{AgeMonths: 4, Percentiles: Percentiles{P3: 60.0, P15: 61.7, P50: 63.9, P85: 66.0, P97: 67.8}},
		{AgeMonths: 5, Percentiles: Percentiles{P3: 61.9, P15: 63.7, P50: 65.9, P85: 68.1, P97: 69.9}},
		{AgeMonths: 6, Percentiles: Percentiles{P3: 63.6, P15: 65.4, P50: 67.6, P85: 69.8, P97: 71.6}},
		{AgeMonths: 7, Percentiles: Percentiles{P3: 65.1, P15: 66.9, P50: 69.2, P85: 71.4, P97: 73.2}},
		{AgeMonths: 8, Percentiles: Percentiles{P3: 66.5, P15: 68.3, P50: 70.6, P85: 72.9, P97: 74.7}},
		{AgeMonths: 9, Percentiles: Percentiles{P3: 67.7, P15: 69.6, P50: 72.0, P85: 74.3, P97: 76.2}},
		{AgeMonths: 10, Percentiles: Percentiles{P3: 69.0, P15: 70.9, P50: 73.3, P85: 75.6, P97: 77.6}},
		{AgeMonths: 11, Percentiles: Percentiles{P3: 70.2, P15: 72.1, P50: 74.5, P85: 77.0, P97: 78.9}},
		{AgeMonths: 12, Percentiles: Percentiles{P3: 71.3, P15: 73.3, P50: 75.7, P85: 78.2, P97: 80.2}},
	},
	// Length-for-age (cm), female
	{Female, Height}: {
		{AgeMonths: 0, Percentiles: Percentiles{P3: 45.6, P15: 47.2, P50: 49.1, P85: 51.1, P97: 52.7}},
		{AgeMonths: 1, Percentiles: Percentiles{P3: 50.0, P15: 51.7, P50: 53.7, P85: 55.7, P97: 57.4}},
		{AgeMonths: 2, Percentiles: Percentiles{P3: 53.2, P15: 55.0, P50: 57.1, P85: 59.1, P97: 60.9}},
		{AgeMonths: 3, Percentiles: Percentiles{P3: 55.8, P15: 57.6, P50: 59.8, P85: 61.9, P97: 63.8}},
		{AgeMonths: 4, Percentiles: Percentiles{P3: 58.0, P15: 59.8, P50: 62.1, P85: 64.3, P97: 66.2}},
		{AgeMonths: 5, Percentiles: Percentiles{P3: 59.9, P15: 61.7, P50: 64.0, P85: 66.2, P97: 68.2}},
		{AgeMonths: 6, Percentiles: Percentiles{P3: 61.5, P15: 63.4, P50: 65.7, P85: 68.0, P97: 70.0}},
		{AgeMonths: 7, Percentiles: Percentiles{P3: 62.9, P15: 64.8, P50: 67.3, P85: 69.6, P97: 71.6}},
		{AgeMonths: 8, Percentiles: Percentiles{P3: 64.3, P15: 66.2, P50: 68.7, P85: 71.1, P97: 73.2}},
		{AgeMonths: 9, Percentiles: Percentiles{P3: 65.6, P15: 67.6, P50: 70.1, P85: 72.6, P97: 74.7}},
		{AgeMonths: 10, Percentiles: Percentiles{P3: 66.8, P15: 68.9, P50: 71.5, P85: 73.9, P97: 76.1}},
		{AgeMonths: 11, Percentiles: Percentiles{P3: 68.0, P15: 70.2, P50: 72.8, P85: 75.3, P97: 77.5}},
		{AgeMonths: 12, Percentiles: Percentiles{P3: 69.2, P15: 71.3, P50: 74.0, P85: 76.6, P97: 78.9}},
	},
	// Head circumference-for-age (cm), male
	{Male, HeadCircumference}: {
		{AgeMonths: 0, Percentiles: Percentiles{P3: 32.1, P15: 33.1, P50: 34.5, P85: 35.8, P97: 36.9}},
		{AgeMonths: 1, Percentiles: Percentiles{P3: 35.1, P15: 36.1, P50: 37.3, P85: 38.5, P97: 39.5}},
		{AgeMonths: 2, Percentiles: Percentiles{P3: 36.9, P15: 37.9, P50: 39.1, P85: 40.3, P97: 41.3}},
		{AgeMonths: 3, Percentiles: Percentiles{P3: 38.3, P15: 39.3, P50: 40.5, P85: 41.7, P97: 42.7}},
		{AgeMonths: 4, Percentiles: Percentiles{P3: 39.4, P15: 40.4, P50: 41.6, P85: 42.9, P97: 43.9}},
		{AgeMonths: 5, Percentiles: Percentiles{P3: 40.3, P15: 41.3, P50: 42.6, P85: 43.8, P97: 44.8}},
		{AgeMonths: 6, Percentiles: Percentiles{P3: 41.0, P15: 42.1, P50: 43.3, P85: 44.6, P97: 45.6}},
		{AgeMonths: 7, Percentiles: Percentiles{P3: 41.7, P15: 42.7, P50: 44.0, P85: 45.3, P97: 46.3}},
		{AgeMonths: 8, Percentiles: Percentiles{P3: 42.2, P15: 43.2, P50: 44.5, P85: 45.8, P97: 46.9}},
		{AgeMonths: 9, Percentiles: Percentiles{P3: 42.6, P15: 43.7, P50: 45.0, P85: 46.3, P97: 47.4}},
		{AgeMonths: 10, Percentiles: Percentiles{P3: 43.0, P15: 44.1, P50: 45.4, P85: 46.7, P97: 47.8}},
		{AgeMonths: 11, Percentiles: Percentiles{P3: 43.4, P15: 44.4, P50: 45.8, P85: 47.1, P97: 48.2}},
		{AgeMonths: 12, Percentiles: Percentiles{P3: 43.6, P15: 44.7, P50: 46.1, P85: 47.4, P97: 48.5}},
	},
	// Head circumference-for-age (cm), female
	{Female, HeadCircumference}: {
		{AgeMonths: 0, Percentiles: Percentiles{P3: 31.7, P15: 32.7, P50: 33.9, P85: 35.1, P97: 36.1}},
		{AgeMonths: 1, Percentiles: Percentiles{P3: 34.3, P15: 35.3, P50: 36.5, P85: 37.8, P97: 38.8}},
		{AgeMonths: 2, Percentiles: Percentiles{P3: 36.0, P15: 37.0, P50: 38.3, P85: 39.5, P97: 40.5}},
		{AgeMonths: 3, Percentiles: Percentiles{P3: 37.2, P15: 38.2, P50: 39.5, P85: 40.8, P97: 41.9}},
		{AgeMonths: 4, Percentiles: Percentiles{P3: 38.2, P15: 39.3, P50: 40.6, P85: 41.9, P97: 43.0}},
		{AgeMonths: 5, Percentiles: Percentiles{P3: 39.0, P15: 40.1, P50: 41.5, P85: 42.8, P97: 43.9}},
		{AgeMonths: 6, Percentiles: Percentiles{P3: 39.7, P15: 40.8, P50: 42.2, P85: 43.5, P97: 44.6}},
		{AgeMonths: 7, Percentiles: Percentiles{P3: 40.4, P15: 41.5, P50: 42.8, P85: 44.2, P97: 45.3}},
		{AgeMonths: 8, Percentiles: Percentiles{P3: 40.9, P15: 42.0, P50: 43.4, P85: 44.7, P97: 45.9}},
		{AgeMonths: 9, Percentiles: Percentiles{P3: 41.3, P15: 42.4, P50: 43.8, P85: 45.2, P97: 46.3}},
		{AgeMonths: 10, Percentiles: Percentiles{P3: 41.7, P15: 42.8, P50: 44.2, P85: 45.6, P97: 46.8}},
		{AgeMonths: 11, Percentiles: Percentiles{P3: 42.0, P15: 43.2, P50: 44.6, P85: 46.0, P97: 47.1}},
		{AgeMonths: 12, Percentiles: Percentiles{P3: 42.3, P15: 43.5, P50: 44.9, P85: 46.3, P97: 47.5}},
	},
}
