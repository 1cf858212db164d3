package resolver

// SchemaContext is the hand-written data dictionary describing the flood
// database. It is prepended to every question delegated to the answering
// service and is never mutated at runtime.
const SchemaContext = `### Detailed Data Dictionary for 'flood.db'

The database contains three tables: **inundation_forecasting**, **rainfall**, and **alerts**.
Below is a detailed breakdown of each column and their relationships.

---

#### 1. inundation_forecasting
- **datetime**: Timestamp indicating the date and time of the forecast (e.g. "2025-01-01 08:00:00").
- **ht_forecast**: Numerical value representing the predicted water height or inundation level (e.g. "5.2 feet").
- **latitude**: Geographic latitude coordinate for the forecast location (e.g. "24.4539").
- **longitude**: Geographic longitude coordinate for the forecast location (e.g. "54.3773").

**Purpose**:
This table is used to store predictive data for flooding. The ` + "`ht_forecast`" + ` helps determine flood severity, and the lat/long fields map exactly where the forecast is applicable.

---

#### 2. rainfall
- **precipInches**: Amount of rainfall measured in inches (e.g. "0.75").
- **deviceId**: Unique identifier of the device recording rainfall (e.g. "R123").
- **deviceLabel**: Human-readable label/name of the device (e.g. "Downtown Rain Gauge").
- **region**: Region or area name associated with the device (e.g. "Abu Dhabi City Center").
- **msr_date**: Date of the measurement (e.g. "2025-01-05").
- **msr_time**: Time of the measurement (e.g. "14:30:00").
- **latitude**: Geographic latitude coordinate of the device (e.g. "24.4539").
- **longitude**: Geographic longitude coordinate of the device (e.g. "54.3773").
- **msr_dttm**: Combined date-time of the measurement, often used for queries and analysis (e.g. "2025-01-05 14:30:00").

**Purpose**:
This table tracks rainfall data from various devices. The ` + "`region`" + ` column can be linked to the region in alerts or used in conjunction with lat/long to match forecasting data or alerts.

---

#### 3. alerts
- **alertType**: Type of alert (e.g. "Flood Warning", "Flash Flood", "High Tide").
- **alertSubtype**: More specific subtype of the alert (e.g. "Severe", "Moderate").
- **alertSeverity**: Severity level (e.g. "Critical", "High", "Medium", "Low").
- **alertMessage**: Text describing the alert (e.g. "Flash Flood Watch in effect until 6 PM.").
- **deviceId**: Device ID associated with the alert; may link to ` + "`rainfall.deviceId`" + ` if relevant.
- **region**: Region name where the alert is applicable (e.g. "Al Nahdah").
- **msr_dttm**: Combined date-time when the alert was issued (e.g. "2025-01-05 14:45:00").
- **msr_date**: Date when the alert was issued (e.g. "2025-01-05").
- **msr_time**: Time when the alert was issued (e.g. "14:45:00").
- **msr_month**: Month of the alert, either numeric or textual (e.g. "January" or "01").
- **Lat**: Latitude coordinate of the alert location (e.g. "24.4539").
- **Long**: Longitude coordinate of the alert location (e.g. "54.3773").

**Purpose**:
This table stores alerts that have been triggered, including the type of flood alert, severity, and location details.

---

### Potential Relationships:
1. **alerts.deviceId** = **rainfall.deviceId**:
   If both the ` + "`alerts`" + ` and ` + "`rainfall`" + ` tables share the same device ID, they can be joined to correlate which specific rainfall device triggered an alert.
2. **alerts.region** = **rainfall.region**:
   If you want to track all alerts for a given region, you can join on the ` + "`region`" + ` column. The same can be done with ` + "`inundation_forecasting`" + ` if you assign region names consistently or rely on the lat/long proximity to match the region.
3. **Spatial/Geographic Matching**:
   By comparing lat/long values in ` + "`inundation_forecasting`" + `, ` + "`rainfall`" + `, and ` + "`alerts`" + `, you can determine how different meteorological or hydrological events line up in the same area.

---

### Usage:
Use this data dictionary to understand the purpose of each field when querying the database or building flood-related analytics.`
